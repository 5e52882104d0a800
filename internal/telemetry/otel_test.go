package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"megahal/internal/config"
)

func TestSetupDisabledReturnsNoopInstruments(t *testing.T) {
	instr, shutdown, err := Setup(context.Background(), config.TelemetryConfig{})
	require.NoError(t, err)
	require.NotNil(t, instr)
	assert.NoError(t, shutdown(context.Background()))
}

func TestNoopInstrumentsRecordCallsDoNotPanic(t *testing.T) {
	instr, _, err := Setup(context.Background(), config.TelemetryConfig{})
	require.NoError(t, err)

	ctx, end := instr.StartSpan(context.Background(), "learn")
	instr.RecordTokensLearned(ctx, 10)
	instr.RecordCandidatesGenerated(ctx, 4)
	instr.RecordSurpriseScore(ctx, 1.5)
	end()
}

func TestNilInstrumentsAreSafe(t *testing.T) {
	var instr *Instruments
	ctx, end := instr.StartSpan(context.Background(), "learn")
	instr.RecordTokensLearned(ctx, 1)
	instr.RecordCandidatesGenerated(ctx, 1)
	instr.RecordSurpriseScore(ctx, 0.1)
	end()
}

func TestSetupRequiresEndpointEvenWhenEnabled(t *testing.T) {
	instr, shutdown, err := Setup(context.Background(), config.TelemetryConfig{Enabled: true})
	require.NoError(t, err)
	require.NotNil(t, instr)
	assert.NoError(t, shutdown(context.Background()))
}
