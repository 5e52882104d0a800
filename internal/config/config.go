// Package config loads the engine's runtime configuration from a YAML file
// layered with environment variable overrides, following the teacher's
// env-first-then-YAML-defaults loader shape.
package config

// S3SSEConfig controls server-side encryption for objects written to S3.
type S3SSEConfig struct {
	Mode     string `yaml:"mode"`
	KMSKeyID string `yaml:"kmsKeyID"`
}

// S3Config configures an S3-compatible object store backend, consumed
// directly by internal/objectstore.NewS3Store.
type S3Config struct {
	Endpoint              string      `yaml:"endpoint"`
	Region                string      `yaml:"region"`
	Bucket                string      `yaml:"bucket"`
	Prefix                string      `yaml:"prefix"`
	AccessKey             string      `yaml:"accessKey"`
	SecretKey             string      `yaml:"secretKey"`
	UsePathStyle          bool        `yaml:"usePathStyle"`
	TLSInsecureSkipVerify bool        `yaml:"tlsInsecureSkipVerify"`
	SSE                   S3SSEConfig `yaml:"sse"`
}

// LexiconConfig points at the optional collaborator-supplied word lists from
// spec.md §6: banned keywords, auxiliary keywords, swap pairs, greetings.
// Any path left empty loads as an empty list.
type LexiconConfig struct {
	BannedPath   string `yaml:"bannedPath"`
	AuxPath      string `yaml:"auxPath"`
	SwapPath     string `yaml:"swapPath"`
	GreetingPath string `yaml:"greetingPath"`
}

// ModelStoreConfig selects and configures the model snapshot backend.
type ModelStoreConfig struct {
	// Backend is "memory" or "s3". Empty defaults to "memory".
	Backend string   `yaml:"backend"`
	S3      S3Config `yaml:"s3"`
}

// TranscriptConfig describes a conversation transcript backend. Load fills
// it in; the CLI's chat command does not read it and always records turns
// in a transcript.MemoryStore.
type TranscriptConfig struct {
	// Backend is "memory" or "postgres". Empty defaults to "memory".
	Backend string `yaml:"backend"`
	DSN     string `yaml:"dsn"`
}

// CacheConfig configures the optional Redis-backed reply cache. An empty
// Addr disables caching.
type CacheConfig struct {
	Addr                  string `yaml:"addr"`
	Password              string `yaml:"password"`
	DB                    int    `yaml:"db"`
	TLSInsecureSkipVerify bool   `yaml:"tlsInsecureSkipVerify"`
	TTLSeconds            int    `yaml:"ttlSeconds"`
}

// KafkaConfig configures the streaming ingestion consumer. An empty Brokers
// value means cmd/megahal-ingest has nothing to connect to.
type KafkaConfig struct {
	Brokers         string `yaml:"brokers"`
	Topic           string `yaml:"topic"`
	GroupID         string `yaml:"groupID"`
	CheckpointEvery int    `yaml:"checkpointEvery"`
}

// TelemetryConfig controls OpenTelemetry tracing and metrics export. An
// empty Endpoint disables telemetry entirely.
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	Insecure    bool   `yaml:"insecure"`
	ServiceName string `yaml:"serviceName"`
}

// Config is the engine's complete runtime configuration. Every field has a
// usable zero value, matching spec.md §6's "all collaborators optional"
// contract: an empty config file loads a working, unadorned engine.
type Config struct {
	Order       int              `yaml:"order"`
	LogLevel    string           `yaml:"logLevel"`
	LogPath     string           `yaml:"logPath"`
	Lexicon     LexiconConfig    `yaml:"lexicon"`
	ModelStore  ModelStoreConfig `yaml:"modelStore"`
	Transcript  TranscriptConfig `yaml:"transcript"`
	Cache       CacheConfig      `yaml:"cache"`
	Kafka       KafkaConfig      `yaml:"kafka"`
	Telemetry   TelemetryConfig  `yaml:"telemetry"`
}
