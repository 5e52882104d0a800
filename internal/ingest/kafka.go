// Package ingest runs a streaming learner: a Kafka consumer that feeds raw
// text messages to an engine.Model and periodically checkpoints the model
// to a modelstore.Store. It is the service form of the single-writer
// "collaborator supplies text blobs" learning path.
package ingest

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"megahal/internal/config"
	"megahal/internal/engine"
	"megahal/internal/logging"
	"megahal/internal/modelstore"
)

var log = logging.For("ingest")

// Consumer reads text messages off a Kafka topic, learns each one into a
// single in-memory Model, and checkpoints that model to a modelstore.Store
// every CheckpointEvery messages. Learning happens on a single goroutine
// (Run's own): engine.Model documents a single-writer discipline, so unlike
// a generic command-processing consumer this one never fans message
// handling out across worker goroutines — only I/O (fetch, commit) would be
// safe to parallelize, and FetchMessage/CommitMessages are already
// sequential per partition. A Consumer is not safe for concurrent Run calls
// against the same Model.
type Consumer struct {
	Brokers         []string
	Topic           string
	GroupID         string
	CheckpointEvery int
	ModelName       string

	Model *engine.Model
	Store *modelstore.Store

	processed int
}

// NewConsumer builds a Consumer from cfg, wiring it to model and store. It
// returns an error if cfg.Brokers is empty, since the caller should treat
// ingestion as disabled in that case rather than constructing a Consumer.
func NewConsumer(cfg config.KafkaConfig, model *engine.Model, store *modelstore.Store, modelName string) (*Consumer, error) {
	brokers := splitBrokers(cfg.Brokers)
	if len(brokers) == 0 {
		return nil, errors.New("ingest: no kafka brokers configured")
	}

	checkpointEvery := cfg.CheckpointEvery
	if checkpointEvery <= 0 {
		checkpointEvery = 100
	}

	return &Consumer{
		Brokers:         brokers,
		Topic:           cfg.Topic,
		GroupID:         cfg.GroupID,
		CheckpointEvery: checkpointEvery,
		ModelName:       modelName,
		Model:           model,
		Store:           store,
	}, nil
}

func splitBrokers(raw string) []string {
	var out []string
	for _, b := range strings.Split(raw, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			out = append(out, b)
		}
	}
	return out
}

// Run consumes messages from c.Topic until ctx is canceled, learning each
// message body into c.Model and checkpointing to c.Store every
// c.CheckpointEvery messages, and once more on exit. Fetch, learn, and commit happen one message at a time on this
// goroutine: engine.Model.Learn mutates the shared trie/symbol table with
// no internal locking, so handling must stay single-writer rather than
// fanning out across a worker pool. Messages that fail to learn (malformed
// symbol space etc.) are logged and committed anyway; learning is
// best-effort per message, since a poison message must never stall the
// whole topic.
func (c *Consumer) Run(ctx context.Context) error {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  c.Brokers,
		GroupID:  c.GroupID,
		Topic:    c.Topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer func() {
		if err := reader.Close(); err != nil {
			log.WithError(err).Warn("kafka_reader_close_failed")
		}
	}()

	for {
		if ctx.Err() != nil {
			break
		}
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				break
			}
			log.WithError(err).Warn("kafka_fetch_failed")
			select {
			case <-time.After(500 * time.Millisecond):
			case <-ctx.Done():
			}
			continue
		}

		c.handle(ctx, msg)
		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.WithError(err).Warn("kafka_commit_failed")
		}
	}

	if err := c.checkpoint(context.WithoutCancel(ctx)); err != nil {
		log.WithError(err).Warn("final_checkpoint_failed")
	}
	return ctx.Err()
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) {
	text := string(msg.Value)
	stats, err := c.Model.Learn(text)
	if err != nil {
		log.WithError(err).WithField("offset", msg.Offset).Warn("learn_failed")
		return
	}
	log.WithField("tokens_learned", stats.TokensLearned).Debug("message_learned")

	c.processed++
	if c.processed%c.CheckpointEvery == 0 {
		if err := c.checkpoint(ctx); err != nil {
			log.WithError(err).Warn("checkpoint_failed")
		}
	}
}

func (c *Consumer) checkpoint(ctx context.Context) error {
	if c.Store == nil {
		return nil
	}
	return c.Store.Save(ctx, c.ModelName, c.Model)
}
