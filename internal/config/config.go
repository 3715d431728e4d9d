// Package config loads corpusd's runtime configuration from a YAML file
// with environment-variable overrides, mirroring the teacher's
// internal/config package (struct tags, a Load() entry point, godotenv for
// local .env files) scaled down to the handful of knobs this repository's
// components actually expose: the relatedness threshold, snapshot backend
// selection, and the storage backends' own connection settings.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// S3Config configures an S3-compatible ObjectStore backend (see
// internal/objectstore.NewS3Store).
type S3Config struct {
	Bucket                string      `yaml:"bucket"`
	Region                string      `yaml:"region"`
	Endpoint              string      `yaml:"endpoint"`
	Prefix                string      `yaml:"prefix"`
	AccessKey             string      `yaml:"access_key"`
	SecretKey             string      `yaml:"secret_key"`
	UsePathStyle          bool        `yaml:"use_path_style"`
	TLSInsecureSkipVerify bool        `yaml:"tls_insecure_skip_verify"`
	SSE                   S3SSEConfig `yaml:"sse"`
}

// S3SSEConfig configures server-side encryption on Put.
type S3SSEConfig struct {
	// Mode is "", "sse-s3", or "sse-kms".
	Mode     string `yaml:"mode"`
	KMSKeyID string `yaml:"kms_key_id"`
}

// RedisConfig configures a Redis-backed snapshot cache (see
// internal/snapshot.RedisStore), mirroring the shape of the teacher's
// internal/workspaces RedisGenerationCache configuration.
type RedisConfig struct {
	Enabled               bool   `yaml:"enabled"`
	Addr                  string `yaml:"addr"`
	Password              string `yaml:"password"`
	DB                    int    `yaml:"db"`
	TLSInsecureSkipVerify bool   `yaml:"tls_insecure_skip_verify"`
}

// KafkaConfig configures the KafkaFetcher collaborator.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	GroupID string   `yaml:"group_id"`
	Topic   string   `yaml:"topic"`
}

// SnapshotConfig selects and configures the Serialization component's
// persistence backend (spec §4.7, §10.3).
type SnapshotConfig struct {
	// Backend is one of "file", "s3", "redis".
	Backend string      `yaml:"backend"`
	Name    string      `yaml:"name"`
	Dir     string      `yaml:"dir"`
	S3      S3Config    `yaml:"s3"`
	Redis   RedisConfig `yaml:"redis"`
}

// Config is corpusd's top-level configuration.
type Config struct {
	// SimilarityThreshold overrides relgraph.DefaultThreshold (spec §9.5).
	SimilarityThreshold float64        `yaml:"similarity_threshold"`
	LogLevel            string         `yaml:"log_level"`
	Snapshot            SnapshotConfig `yaml:"snapshot"`
	Kafka               KafkaConfig    `yaml:"kafka"`
}

// Default returns the zero-configuration defaults: a 0.2 similarity
// threshold, info logging, and a local "./snapshots" file backend.
func Default() Config {
	return Config{
		SimilarityThreshold: 0.2,
		LogLevel:            "info",
		Snapshot: SnapshotConfig{
			Backend: "file",
			Name:    "corpus",
			Dir:     "./snapshots",
		},
	}
}

// Load reads path as YAML into Default()'s values, then applies a small set
// of environment-variable overrides via godotenv.Overload, mirroring the
// teacher's internal/config.Load: .env values win over pre-existing OS
// environment variables, env vars win over whatever the YAML file set.
// A missing path is not an error: Load just returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return applyEnv(cfg), nil
			}
			return Config{}, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	}

	return applyEnv(cfg), nil
}

func applyEnv(cfg Config) Config {
	_ = godotenv.Overload()

	if v := strings.TrimSpace(os.Getenv("CORPUSD_SIMILARITY_THRESHOLD")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.SimilarityThreshold = f
		}
	}
	if v := strings.TrimSpace(os.Getenv("CORPUSD_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("CORPUSD_SNAPSHOT_BACKEND")); v != "" {
		cfg.Snapshot.Backend = v
	}
	if v := strings.TrimSpace(os.Getenv("CORPUSD_SNAPSHOT_DIR")); v != "" {
		cfg.Snapshot.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv("AWS_BUCKET")); v != "" {
		cfg.Snapshot.S3.Bucket = v
	}
	if v := strings.TrimSpace(os.Getenv("AWS_REGION")); v != "" {
		cfg.Snapshot.S3.Region = v
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_ADDR")); v != "" {
		cfg.Snapshot.Redis.Addr = v
		cfg.Snapshot.Redis.Enabled = true
	}
	if v := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := strings.TrimSpace(os.Getenv("KAFKA_TOPIC")); v != "" {
		cfg.Kafka.Topic = v
	}

	return cfg
}
