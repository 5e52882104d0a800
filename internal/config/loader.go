package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load reads configuration from an optional YAML file and layers environment
// variable overrides on top, mirroring the teacher's env-then-YAML-defaults
// loader. A missing path is not an error: Load then builds the Config from
// environment overrides and applyDefaults alone.
func Load(path string) (Config, error) {
	_ = godotenv.Overload()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("unmarshal config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// no config file; defaults and env vars still apply
		default:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if v := strings.TrimSpace(os.Getenv("MEGAHAL_ORDER")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Order = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_PATH")); v != "" {
		cfg.LogPath = v
	}

	if v := strings.TrimSpace(os.Getenv("MEGAHAL_BANNED_PATH")); v != "" {
		cfg.Lexicon.BannedPath = v
	}
	if v := strings.TrimSpace(os.Getenv("MEGAHAL_AUX_PATH")); v != "" {
		cfg.Lexicon.AuxPath = v
	}
	if v := strings.TrimSpace(os.Getenv("MEGAHAL_SWAP_PATH")); v != "" {
		cfg.Lexicon.SwapPath = v
	}
	if v := strings.TrimSpace(os.Getenv("MEGAHAL_GREETING_PATH")); v != "" {
		cfg.Lexicon.GreetingPath = v
	}

	if v := strings.TrimSpace(os.Getenv("MEGAHAL_MODELSTORE_BACKEND")); v != "" {
		cfg.ModelStore.Backend = v
	}
	if v := strings.TrimSpace(os.Getenv("MEGAHAL_S3_ENDPOINT")); v != "" {
		cfg.ModelStore.S3.Endpoint = v
	}
	if v := strings.TrimSpace(os.Getenv("MEGAHAL_S3_REGION")); v != "" {
		cfg.ModelStore.S3.Region = v
	}
	if v := strings.TrimSpace(os.Getenv("MEGAHAL_S3_BUCKET")); v != "" {
		cfg.ModelStore.S3.Bucket = v
	}
	if v := strings.TrimSpace(os.Getenv("MEGAHAL_S3_PREFIX")); v != "" {
		cfg.ModelStore.S3.Prefix = v
	}
	if v := strings.TrimSpace(os.Getenv("MEGAHAL_S3_ACCESS_KEY")); v != "" {
		cfg.ModelStore.S3.AccessKey = v
	}
	if v := strings.TrimSpace(os.Getenv("MEGAHAL_S3_SECRET_KEY")); v != "" {
		cfg.ModelStore.S3.SecretKey = v
	}
	if v := strings.TrimSpace(os.Getenv("MEGAHAL_S3_USE_PATH_STYLE")); v != "" {
		cfg.ModelStore.S3.UsePathStyle = truthy(v)
	}

	if v := strings.TrimSpace(os.Getenv("MEGAHAL_TRANSCRIPT_BACKEND")); v != "" {
		cfg.Transcript.Backend = v
	}
	if v := strings.TrimSpace(firstNonEmpty(os.Getenv("MEGAHAL_TRANSCRIPT_DSN"), os.Getenv("DATABASE_URL"))); v != "" {
		cfg.Transcript.DSN = v
	}

	if v := strings.TrimSpace(os.Getenv("MEGAHAL_CACHE_ADDR")); v != "" {
		cfg.Cache.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("MEGAHAL_CACHE_PASSWORD")); v != "" {
		cfg.Cache.Password = v
	}
	if v := strings.TrimSpace(os.Getenv("MEGAHAL_CACHE_TTL_SECONDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.TTLSeconds = n
		}
	}

	if v := strings.TrimSpace(firstNonEmpty(os.Getenv("MEGAHAL_KAFKA_BROKERS"), os.Getenv("KAFKA_BROKERS"))); v != "" {
		cfg.Kafka.Brokers = v
	}
	if v := strings.TrimSpace(os.Getenv("MEGAHAL_KAFKA_TOPIC")); v != "" {
		cfg.Kafka.Topic = v
	}
	if v := strings.TrimSpace(os.Getenv("MEGAHAL_KAFKA_GROUP_ID")); v != "" {
		cfg.Kafka.GroupID = v
	}
	if v := strings.TrimSpace(os.Getenv("MEGAHAL_KAFKA_CHECKPOINT_EVERY")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Kafka.CheckpointEvery = n
		}
	}

	if v := strings.TrimSpace(firstNonEmpty(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"), os.Getenv("MEGAHAL_OTEL_ENDPOINT"))); v != "" {
		cfg.Telemetry.Endpoint = v
	}
	if v := strings.TrimSpace(os.Getenv("OTEL_SERVICE_NAME")); v != "" {
		cfg.Telemetry.ServiceName = v
	}

	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Order <= 0 {
		cfg.Order = 5
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.ModelStore.Backend == "" {
		cfg.ModelStore.Backend = "memory"
	}
	if cfg.ModelStore.S3.Region == "" {
		cfg.ModelStore.S3.Region = "us-east-1"
	}
	if cfg.ModelStore.S3.Prefix == "" {
		cfg.ModelStore.S3.Prefix = "models"
	}
	if cfg.ModelStore.S3.SSE.Mode == "" {
		cfg.ModelStore.S3.SSE.Mode = "none"
	}
	if cfg.Transcript.Backend == "" {
		if cfg.Transcript.DSN != "" {
			cfg.Transcript.Backend = "postgres"
		} else {
			cfg.Transcript.Backend = "memory"
		}
	}
	if cfg.Cache.TTLSeconds <= 0 {
		cfg.Cache.TTLSeconds = 3600
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "megahal.ingest"
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = "megahal-ingest"
	}
	if cfg.Kafka.CheckpointEvery <= 0 {
		cfg.Kafka.CheckpointEvery = 100
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "megahal"
	}
	cfg.Telemetry.Enabled = cfg.Telemetry.Endpoint != ""
}

func truthy(v string) bool {
	return strings.EqualFold(v, "true") || v == "1" || strings.EqualFold(v, "yes")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
