package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	// NamespaceNameRegex constrains namespace names (anchored on use).
	NamespaceNameRegex string   `json:"namespaceNameRegex" yaml:"namespaceNameRegex" env:"NAMESPACE_NAME_REGEX"`
	AllowedNamespaces  []string `json:"allowedNamespaces" yaml:"allowedNamespaces" env:"ALLOWED_NAMESPACES" envSeparator:","`

	Ledger     LedgerConfig     `json:"ledger" yaml:"ledger" envPrefix:"LEDGER_"`
	Scores     ScoresConfig     `json:"scores" yaml:"scores" envPrefix:"SCORES_"`
	Storage    StorageConfig    `json:"storage" yaml:"storage" envPrefix:"STORAGE_"`
	Profiles   ProfilesConfig   `json:"profiles" yaml:"profiles" envPrefix:"PROFILES_"`
	Changefeed ChangefeedConfig `json:"changefeed" yaml:"changefeed" envPrefix:"CHANGEFEED_"`
	Telemetry  TelemetryConfig  `json:"telemetry" yaml:"telemetry" envPrefix:"TELEMETRY_"`
}

// LedgerConfig covers the coin transaction log.
type LedgerConfig struct {
	Namespace string `json:"namespace" yaml:"namespace" env:"NAMESPACE"`
	MaxAmount int64  `json:"maxAmount" yaml:"maxAmount" env:"MAX_AMOUNT"`
	// TimeZone is the IANA zone used for record timestamps ("Local" by default).
	TimeZone string `json:"timeZone" yaml:"timeZone" env:"TIME_ZONE"`
}

// ScoresConfig covers snapshots and best-score reports.
type ScoresConfig struct {
	Namespace string `json:"namespace" yaml:"namespace" env:"NAMESPACE"`
	Field     string `json:"field" yaml:"field" env:"FIELD"`
	// Expression, when set, is a CEL expression over `snapshot` that replaces Field.
	Expression         string  `json:"expression" yaml:"expression" env:"EXPRESSION"`
	ScanReadsPerSecond float64 `json:"scanReadsPerSecond" yaml:"scanReadsPerSecond" env:"SCAN_READS_PER_SECOND"`
}

// StorageConfig selects the event log backend.
type StorageConfig struct {
	Backend       string `json:"backend" yaml:"backend" env:"BACKEND"`
	RedisAddr     string `json:"redisAddr" yaml:"redisAddr" env:"REDIS_ADDR"`
	RedisPassword string `json:"redisPassword" yaml:"redisPassword" env:"REDIS_PASSWORD"`
	RedisDB       int    `json:"redisDB" yaml:"redisDB" env:"REDIS_DB"`
}

// ProfilesConfig selects the SQL store for player profiles.
type ProfilesConfig struct {
	// Driver is "sqlite" or "postgres"; empty disables profiles.
	Driver string `json:"driver" yaml:"driver" env:"DRIVER"`
	// DSN defaults to <data-dir>/profiles.db for sqlite.
	DSN string `json:"dsn" yaml:"dsn" env:"DSN"`
}

// ChangefeedConfig publishes every appended record to Kafka when Brokers is set.
type ChangefeedConfig struct {
	Brokers []string `json:"brokers" yaml:"brokers" env:"BROKERS" envSeparator:","`
	Topic   string   `json:"topic" yaml:"topic" env:"TOPIC"`
}

// TelemetryConfig exports OTel metrics over OTLP/gRPC when Endpoint is set.
type TelemetryConfig struct {
	OTLPEndpoint string `json:"otlpEndpoint" yaml:"otlpEndpoint" env:"OTLP_ENDPOINT"`
}

const (
	BackendPebble = "pebble"
	BackendRedis  = "redis"
)

// Default returns built-in defaults.
func Default() Config {
	return Config{
		NamespaceNameRegex: "[A-Za-z0-9_-]{1,64}",
		Ledger: LedgerConfig{
			Namespace: "transactions",
			MaxAmount: 1_000_000_000_000,
			TimeZone:  "Local",
		},
		Scores: ScoresConfig{
			Namespace: "PlayerData",
			Field:     "coins",
		},
		Storage: StorageConfig{
			Backend:   BackendPebble,
			RedisAddr: "localhost:6379",
		},
		Profiles: ProfilesConfig{
			Driver: "sqlite",
		},
		Changefeed: ChangefeedConfig{
			Topic: "coinlog.events",
		},
	}
}

// Load reads configuration from a JSON or YAML file (by extension). If path is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return cfg, nil
}

// Validate reports the first inconsistency in cfg.
func (c Config) Validate() error {
	re, err := regexp.Compile("^(?:" + c.NamespaceNameRegex + ")$")
	if err != nil {
		return fmt.Errorf("namespaceNameRegex: %w", err)
	}
	for _, ns := range []string{c.Ledger.Namespace, c.Scores.Namespace} {
		if !re.MatchString(ns) {
			return fmt.Errorf("namespace %q does not match %q", ns, c.NamespaceNameRegex)
		}
	}
	if c.Ledger.Namespace == c.Scores.Namespace {
		return errors.New("ledger and scores namespaces must differ")
	}
	if c.Ledger.MaxAmount <= 0 {
		return errors.New("ledger.maxAmount must be positive")
	}
	if c.Scores.Field == "" && c.Scores.Expression == "" {
		return errors.New("scores.field or scores.expression is required")
	}
	if c.Scores.ScanReadsPerSecond < 0 {
		return errors.New("scores.scanReadsPerSecond must not be negative")
	}
	switch c.Storage.Backend {
	case BackendPebble:
	case BackendRedis:
		if c.Storage.RedisAddr == "" {
			return errors.New("storage.redisAddr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	switch c.Profiles.Driver {
	case "", "sqlite":
	case "postgres":
		if c.Profiles.DSN == "" {
			return errors.New("profiles.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("unknown profiles driver %q", c.Profiles.Driver)
	}
	if len(c.Changefeed.Brokers) > 0 && c.Changefeed.Topic == "" {
		return errors.New("changefeed.topic is required when brokers are set")
	}
	return nil
}
