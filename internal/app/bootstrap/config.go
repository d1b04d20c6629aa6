package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration for the stroke registry.
// It merges file defaults and environment overrides to support both local and
// deployed runs.
type Config struct {
	ServiceID string

	HTTPPort int
	GRPCPort int

	DatabaseURL   string
	MongoURL      string
	MongoDatabase string
	RedisURL      string

	BcryptCost int

	SessionIdleTimeout      time.Duration
	SessionAbsoluteLifetime time.Duration
	AttemptLimit            int
	AttemptWindow           time.Duration
	StorageTimeout          time.Duration
	PageSize                int

	AuditPublisher string
	AuditBuffer    int
	AuditTopic     string
	KafkaBrokers   []string
	KafkaGroupID   string

	BootstrapAdminUsername string
	BootstrapAdminEmail    string
	BootstrapAdminPassword string

	MaxDBConns int32
}

// configFile mirrors the YAML schema used by configs/default.yaml.
// It is intentionally separate from Config so runtime-only fields stay internal.
type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL   string   `yaml:"postgres_url"`
		MongoURL      string   `yaml:"mongo_url"`
		MongoDatabase string   `yaml:"mongo_database"`
		RedisURL      string   `yaml:"redis_url"`
		KafkaBrokers  []string `yaml:"kafka_brokers"`
	} `yaml:"dependencies"`
	Audit struct {
		Publisher string `yaml:"publisher"`
		Topic     string `yaml:"topic"`
		GroupID   string `yaml:"group_id"`
	} `yaml:"audit"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
// This order keeps local bootstrap simple while allowing environment-specific
// overrides.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:               "stroke-registry",
		HTTPPort:                8080,
		GRPCPort:                9090,
		MongoDatabase:           "strokeregistry",
		BcryptCost:              12,
		SessionIdleTimeout:      2 * time.Hour,
		SessionAbsoluteLifetime: 24 * time.Hour,
		AttemptLimit:            5,
		AttemptWindow:           time.Minute,
		StorageTimeout:          5 * time.Second,
		PageSize:                20,
		AuditPublisher:          "log",
		AuditBuffer:             256,
		AuditTopic:              "stroke-registry.audit",
		KafkaGroupID:            "stroke-registry-audit-archiver",
		MaxDBConns:              20,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.MongoURL != "" {
			cfg.MongoURL = f.Dependencies.MongoURL
		}
		if f.Dependencies.MongoDatabase != "" {
			cfg.MongoDatabase = f.Dependencies.MongoDatabase
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if len(f.Dependencies.KafkaBrokers) > 0 {
			cfg.KafkaBrokers = f.Dependencies.KafkaBrokers
		}
		if f.Audit.Publisher != "" {
			cfg.AuditPublisher = f.Audit.Publisher
		}
		if f.Audit.Topic != "" {
			cfg.AuditTopic = f.Audit.Topic
		}
		if f.Audit.GroupID != "" {
			cfg.KafkaGroupID = f.Audit.GroupID
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.MongoURL = envOrDefault("MONGO_URL", cfg.MongoURL)
	cfg.MongoDatabase = envOrDefault("MONGO_DATABASE", cfg.MongoDatabase)
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.AuditPublisher = strings.ToLower(strings.TrimSpace(envOrDefault("AUDIT_PUBLISHER", cfg.AuditPublisher)))
	cfg.AuditTopic = envOrDefault("AUDIT_TOPIC", cfg.AuditTopic)
	cfg.KafkaGroupID = envOrDefault("KAFKA_GROUP_ID", cfg.KafkaGroupID)
	cfg.BootstrapAdminUsername = envOrDefault("BOOTSTRAP_ADMIN_USERNAME", cfg.BootstrapAdminUsername)
	cfg.BootstrapAdminEmail = envOrDefault("BOOTSTRAP_ADMIN_EMAIL", cfg.BootstrapAdminEmail)
	cfg.BootstrapAdminPassword = envOrDefault("BOOTSTRAP_ADMIN_PASSWORD", cfg.BootstrapAdminPassword)

	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.BcryptCost = envInt("BCRYPT_ROUNDS", cfg.BcryptCost)
	cfg.AttemptLimit = envInt("LOGIN_ATTEMPT_LIMIT", cfg.AttemptLimit)
	cfg.PageSize = envInt("PATIENT_PAGE_SIZE", cfg.PageSize)
	cfg.AuditBuffer = envInt("AUDIT_BUFFER", cfg.AuditBuffer)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))

	cfg.SessionIdleTimeout = time.Duration(envInt("SESSION_IDLE_MINUTES", int(cfg.SessionIdleTimeout.Minutes()))) * time.Minute
	cfg.SessionAbsoluteLifetime = time.Duration(envInt("SESSION_ABSOLUTE_HOURS", int(cfg.SessionAbsoluteLifetime.Hours()))) * time.Hour
	cfg.AttemptWindow = time.Duration(envInt("LOGIN_ATTEMPT_WINDOW_SECONDS", int(cfg.AttemptWindow.Seconds()))) * time.Second
	cfg.StorageTimeout = time.Duration(envInt("STORAGE_TIMEOUT_SECONDS", int(cfg.StorageTimeout.Seconds()))) * time.Second

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}
	if cfg.MongoURL == "" {
		return Config{}, fmt.Errorf("missing MONGO_URL")
	}
	if cfg.AuditPublisher != "log" && cfg.AuditPublisher != "kafka" {
		return Config{}, fmt.Errorf("unknown audit publisher %q", cfg.AuditPublisher)
	}
	if cfg.AuditPublisher == "kafka" && len(cfg.KafkaBrokers) == 0 {
		return Config{}, fmt.Errorf("audit publisher kafka requires KAFKA_BROKERS")
	}

	return cfg, nil
}

// envOrDefault returns an env var when present, otherwise the provided fallback.
func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt parses integer env vars with safe fallback on empty/invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// envCSV parses comma-separated env vars and removes empty segments.
func envCSV(name string, fallback []string) []string {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	parts := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		parts = append(parts, trimmed)
	}
	if len(parts) == 0 {
		return fallback
	}
	return parts
}
