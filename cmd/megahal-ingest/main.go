// Command megahal-ingest runs the streaming learner: a long-lived Kafka
// consumer that feeds incoming text messages into a single model and
// checkpoints it to the configured object store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"megahal/internal/config"
	"megahal/internal/engine"
	"megahal/internal/ingest"
	"megahal/internal/logging"
	"megahal/internal/modelstore"
	"megahal/internal/telemetry"
)

const defaultModelName = "default"

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	modelName := flag.String("model", defaultModelName, "model snapshot name")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logging.Configure(cfg.LogPath, cfg.LogLevel)
	log := logging.For("ingest-main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		log.WithError(err).Fatal("telemetry setup failed")
	}
	defer func() { _ = shutdownTelemetry(context.Background()) }()

	store, err := modelstore.New(ctx, cfg.ModelStore)
	if err != nil {
		log.WithError(err).Fatal("model store setup failed")
	}

	lexicon, err := config.LoadLexicon(cfg.Lexicon)
	if err != nil {
		log.WithError(err).Fatal("lexicon load failed")
	}

	exists, err := store.Exists(ctx, *modelName)
	if err != nil {
		log.WithError(err).Fatal("model existence check failed")
	}

	model := engine.NewModel(cfg.Order)
	if exists {
		loaded, err := store.Load(ctx, *modelName)
		if err != nil {
			log.WithError(err).Fatal("model load failed")
		}
		model = loaded
		log.WithField("model", *modelName).Info("loaded existing model")
	} else {
		log.WithField("model", *modelName).Info("starting new model")
	}
	model.Lexicon = lexicon

	consumer, err := ingest.NewConsumer(cfg.Kafka, model, store, *modelName)
	if err != nil {
		log.WithError(err).Fatal("ingest consumer setup failed")
	}

	log.WithField("topic", consumer.Topic).Info("ingest consumer starting")
	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		log.WithError(err).Fatal("ingest consumer exited with error")
	}
	log.Info("ingest consumer stopped")
}
