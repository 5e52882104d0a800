package ingest

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"megahal/internal/config"
	"megahal/internal/engine"
	"megahal/internal/modelstore"
	"megahal/internal/objectstore"
)

func TestSplitBrokersTrimsAndDropsEmpty(t *testing.T) {
	got := splitBrokers(" broker-a:9092, broker-b:9092 ,,")
	assert.Equal(t, []string{"broker-a:9092", "broker-b:9092"}, got)
}

func TestNewConsumerRejectsEmptyBrokers(t *testing.T) {
	_, err := NewConsumer(config.KafkaConfig{}, engine.NewModel(5), nil, "test")
	assert.Error(t, err)
}

func TestNewConsumerAppliesCheckpointDefault(t *testing.T) {
	c, err := NewConsumer(config.KafkaConfig{Brokers: "broker:9092"}, engine.NewModel(5), nil, "test")
	require.NoError(t, err)
	assert.Equal(t, 100, c.CheckpointEvery)
}

func TestHandleLearnsMessageAndCheckpointsWhenDue(t *testing.T) {
	store := modelstore.NewWithObjectStore(objectstore.NewMemoryStore())
	model := engine.NewModel(5)
	c, err := NewConsumer(config.KafkaConfig{Brokers: "broker:9092", CheckpointEvery: 1}, model, store, "live")
	require.NoError(t, err)

	ctx := context.Background()
	c.handle(ctx, kafka.Message{Value: []byte("THE QUICK BROWN FOX JUMPS OVER THE LAZY DOG")})

	exists, err := store.Exists(ctx, "live")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestHandleSkipsCheckpointUntilThreshold(t *testing.T) {
	store := modelstore.NewWithObjectStore(objectstore.NewMemoryStore())
	model := engine.NewModel(5)
	c, err := NewConsumer(config.KafkaConfig{Brokers: "broker:9092", CheckpointEvery: 5}, model, store, "live")
	require.NoError(t, err)

	ctx := context.Background()
	c.handle(ctx, kafka.Message{Value: []byte("THE QUICK BROWN FOX JUMPS OVER THE LAZY DOG")})

	exists, err := store.Exists(ctx, "live")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCheckpointIsNoopWithoutStore(t *testing.T) {
	c, err := NewConsumer(config.KafkaConfig{Brokers: "broker:9092"}, engine.NewModel(5), nil, "live")
	require.NoError(t, err)
	assert.NoError(t, c.checkpoint(context.Background()))
}

func TestHandleProcessesMessagesSequentiallyOnOneModel(t *testing.T) {
	store := modelstore.NewWithObjectStore(objectstore.NewMemoryStore())
	model := engine.NewModel(5)
	c, err := NewConsumer(config.KafkaConfig{Brokers: "broker:9092", CheckpointEvery: 3}, model, store, "live")
	require.NoError(t, err)

	ctx := context.Background()
	c.handle(ctx, kafka.Message{Value: []byte("THE QUICK BROWN FOX JUMPS OVER THE LAZY DOG")})
	c.handle(ctx, kafka.Message{Value: []byte("THE DOG BARKS AT THE FOX")})
	c.handle(ctx, kafka.Message{Value: []byte("A FOX IS QUICK AND LAZY")})

	assert.Equal(t, 3, c.processed)
	exists, err := store.Exists(ctx, "live")
	require.NoError(t, err)
	assert.True(t, exists)
}
