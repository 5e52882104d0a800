// Command megahal is the CLI front end for the MegaHAL-derived engine: train
// it on a corpus, ask it for a single reply or greeting, or chat with it
// interactively. The model store and the reply cache are wired from
// internal/config the same way the long-running services are; the chat
// transcript is kept in an in-memory store for the length of the session.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"megahal/internal/cache"
	"megahal/internal/config"
	"megahal/internal/engine"
	"megahal/internal/logging"
	"megahal/internal/modelstore"
	"megahal/internal/telemetry"
	"megahal/internal/transcript"
)

const defaultModelName = "default"

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	modelName := flag.String("model", defaultModelName, "model snapshot name")
	numCandidates := flag.Int("candidates", 10, "number of reply candidates to generate")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: megahal [-config path] [-model name] <train|reply|greet|chat> [args]")
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logging.Configure(cfg.LogPath, cfg.LogLevel)
	log := logging.For("cli")

	if err := run(cfg, args[0], args[1:], *modelName, *numCandidates, log); err != nil {
		log.WithError(err).Fatal("megahal command failed")
	}
}

func run(cfg config.Config, command string, args []string, modelName string, numCandidates int, log *logrus.Entry) error {
	ctx := context.Background()

	instr, shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("telemetry setup: %w", err)
	}
	defer func() { _ = shutdownTelemetry(ctx) }()

	store, err := modelstore.New(ctx, cfg.ModelStore)
	if err != nil {
		return fmt.Errorf("model store: %w", err)
	}

	lexicon, err := config.LoadLexicon(cfg.Lexicon)
	if err != nil {
		return fmt.Errorf("lexicon: %w", err)
	}

	model, err := loadOrNewModel(ctx, store, modelName, cfg.Order, log)
	if err != nil {
		return err
	}
	model.Lexicon = lexicon

	replyCache, err := cache.New(cfg.Cache)
	if err != nil {
		return fmt.Errorf("reply cache: %w", err)
	}
	defer replyCache.Close()

	switch command {
	case "train":
		if len(args) != 1 {
			return fmt.Errorf("usage: megahal train <file>")
		}
		return trainCommand(ctx, model, store, modelName, args[0], instr, log)
	case "reply":
		if len(args) != 1 {
			return fmt.Errorf("usage: megahal reply <text>")
		}
		return replyCommand(ctx, model, replyCache, instr, numCandidates, args[0])
	case "greet":
		spanCtx, end := instr.StartSpan(ctx, "greet")
		defer end()
		reply, score := model.GreetScored(numCandidates)
		instr.RecordCandidatesGenerated(spanCtx, int64(numCandidates))
		instr.RecordSurpriseScore(spanCtx, score)
		fmt.Println(reply)
		return nil
	case "chat":
		return chatCommand(ctx, model, store, modelName, numCandidates, instr, log)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func loadOrNewModel(ctx context.Context, store *modelstore.Store, name string, order int, log *logrus.Entry) (*engine.Model, error) {
	exists, err := store.Exists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check model %q: %w", name, err)
	}
	if !exists {
		log.WithField("model", name).Info("starting new model")
		return engine.NewModel(order), nil
	}

	model, err := store.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load model %q: %w", name, err)
	}
	log.WithField("model", name).Info("loaded existing model")
	return model, nil
}

func trainCommand(ctx context.Context, model *engine.Model, store *modelstore.Store, modelName, path string, instr *telemetry.Instruments, log *logrus.Entry) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read corpus: %w", err)
	}

	ctx, end := instr.StartSpan(ctx, "train")
	defer end()

	stats, err := model.Learn(string(data))
	if err != nil {
		return fmt.Errorf("learn: %w", err)
	}
	instr.RecordTokensLearned(ctx, int64(stats.TokensLearned))

	log.WithField("tokens_learned", stats.TokensLearned).
		WithField("lines_learned", stats.LinesLearned).
		Info("training complete")

	if err := store.Save(ctx, modelName, model); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	return nil
}

func replyCommand(ctx context.Context, model *engine.Model, replyCache *cache.ReplyCache, instr *telemetry.Instruments, numCandidates int, text string) error {
	ctx, end := instr.StartSpan(ctx, "reply")
	defer end()

	if reply, ok := replyCache.Get(ctx, text, model.Order, numCandidates); ok {
		fmt.Println(reply)
		return nil
	}
	reply, score := model.ReplyScored(text, numCandidates)
	instr.RecordCandidatesGenerated(ctx, int64(numCandidates))
	instr.RecordSurpriseScore(ctx, score)
	if err := replyCache.Set(ctx, text, model.Order, numCandidates, reply); err != nil {
		return fmt.Errorf("cache reply: %w", err)
	}
	fmt.Println(reply)
	return nil
}

func chatCommand(ctx context.Context, model *engine.Model, store *modelstore.Store, modelName string, numCandidates int, instr *telemetry.Instruments, log *logrus.Entry) error {
	sessions := transcript.NewMemoryStore()
	sessionID := "cli-chat"

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println(model.Greet(numCandidates))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		spanCtx, end := instr.StartSpan(ctx, "converse")
		stats, reply, score := model.ConverseScored(line, numCandidates)
		instr.RecordTokensLearned(spanCtx, int64(stats.TokensLearned))
		instr.RecordCandidatesGenerated(spanCtx, int64(numCandidates))
		instr.RecordSurpriseScore(spanCtx, score)
		end()

		fmt.Println(reply)
		if _, err := sessions.AppendTurn(ctx, sessionID, transcript.Turn{
			Input: line,
			Reply: reply,
			Score: score,
		}); err != nil {
			log.WithError(err).Warn("append turn failed")
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	if err := store.Save(ctx, modelName, model); err != nil {
		return fmt.Errorf("checkpoint on exit: %w", err)
	}
	return nil
}
