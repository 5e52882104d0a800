// Package telemetry wires OpenTelemetry tracing and metrics around the
// engine's Learn/Reply/Greet/Converse operations. It is a no-op when no
// endpoint is configured, matching the teacher's own Setup short-circuit.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"

	"megahal/internal/config"
)

// Instruments holds the counters and histogram recorded around engine
// operations. A zero-value Instruments (as returned when telemetry is
// disabled) has nil fields; StartSpan and the Record* methods guard against
// that.
type Instruments struct {
	tracer        trace.Tracer
	tokensLearned metric.Int64Counter
	candidatesGen metric.Int64Counter
	surpriseScore metric.Float64Histogram
}

// Shutdown tears down whatever exporters Setup started. It is always safe
// to call, even when telemetry was disabled.
type Shutdown func(context.Context) error

// Setup initializes tracing and metrics per cfg. When cfg.Enabled is false
// or cfg.Endpoint is empty, it returns a disabled Instruments and a no-op
// Shutdown.
func Setup(ctx context.Context, cfg config.TelemetryConfig) (*Instruments, Shutdown, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return &Instruments{}, func(context.Context) error { return nil }, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, nil, err
	}

	traceOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	metricOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		traceOpts = append(traceOpts, otlptracehttp.WithInsecure())
		metricOpts = append(metricOpts, otlpmetrichttp.WithInsecure())
	}

	traceExporter, err := otlptracehttp.New(ctx, traceOpts...)
	if err != nil {
		return nil, nil, err
	}
	metricExporter, err := otlpmetrichttp.New(ctx, metricOpts...)
	if err != nil {
		return nil, nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	meter := mp.Meter("megahal")
	tokensLearned, err := meter.Int64Counter("megahal.tokens_learned")
	if err != nil {
		return nil, nil, err
	}
	candidatesGen, err := meter.Int64Counter("megahal.candidates_generated")
	if err != nil {
		return nil, nil, err
	}
	surpriseScore, err := meter.Float64Histogram("megahal.surprise_score")
	if err != nil {
		return nil, nil, err
	}

	shutdown := func(ctx context.Context) error {
		if err := tp.Shutdown(ctx); err != nil {
			return err
		}
		return mp.Shutdown(ctx)
	}

	return &Instruments{
		tracer:        tp.Tracer("megahal"),
		tokensLearned: tokensLearned,
		candidatesGen: candidatesGen,
		surpriseScore: surpriseScore,
	}, shutdown, nil
}

// StartSpan starts a span named name when tracing is enabled, and a no-op
// span otherwise. Callers should always defer the returned end function.
func (i *Instruments) StartSpan(ctx context.Context, name string) (context.Context, func()) {
	if i == nil || i.tracer == nil {
		return ctx, func() {}
	}
	ctx, span := i.tracer.Start(ctx, name)
	return ctx, func() { span.End() }
}

// RecordTokensLearned adds n to the tokens-learned counter, a no-op when
// telemetry is disabled.
func (i *Instruments) RecordTokensLearned(ctx context.Context, n int64) {
	if i == nil || i.tokensLearned == nil {
		return
	}
	i.tokensLearned.Add(ctx, n)
}

// RecordCandidatesGenerated adds n to the candidates-generated counter.
func (i *Instruments) RecordCandidatesGenerated(ctx context.Context, n int64) {
	if i == nil || i.candidatesGen == nil {
		return
	}
	i.candidatesGen.Add(ctx, n)
}

// RecordSurpriseScore observes one surprise score sample.
func (i *Instruments) RecordSurpriseScore(ctx context.Context, score float64) {
	if i == nil || i.surpriseScore == nil {
		return
	}
	i.surpriseScore.Record(ctx, score)
}
