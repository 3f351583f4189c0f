package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App    AppConfig
	Server ServerConfig
	DB     PostgresConfig
	Auth   AuthConfig
	Ingest IngestConfig
	Kafka  KafkaConfig
}

type AppConfig struct {
	Name string
	Env  string
}

type ServerConfig struct {
	Host string
	Port int
}

type PostgresConfig struct {
	URL      string
	MaxConns int
}

// AuthConfig controls operator login. An empty JWTSecret disables the bearer check.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// IngestConfig holds the fixed parameters of the order-export pipeline.
type IngestConfig struct {
	TimeZone      string
	ReferenceHour int
	MaxGapSpan    int
	CSVEncoding   string
	MaxUploadMB   int
}

// KafkaConfig is optional; with no brokers batch events are not published.
type KafkaConfig struct {
	Brokers    []string
	BatchTopic string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "seedhouse"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnvAsInt("APP_PORT", 8080),
		},
		DB: PostgresConfig{
			URL:      getEnv("DATABASE_URL", ""),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", ""),
			TokenTTL:  time.Duration(getEnvAsInt("AUTH_TOKEN_TTL_HOURS", 12)) * time.Hour,
		},
		Ingest: IngestConfig{
			TimeZone:      getEnv("INGEST_TIME_ZONE", "America/Los_Angeles"),
			ReferenceHour: getEnvAsInt("INGEST_REFERENCE_HOUR", 12),
			MaxGapSpan:    getEnvAsInt("INGEST_MAX_GAP_SPAN", 10000),
			CSVEncoding:   strings.ToLower(getEnv("INGEST_CSV_ENCODING", "utf-8")),
			MaxUploadMB:   getEnvAsInt("INGEST_MAX_UPLOAD_MB", 32),
		},
		Kafka: KafkaConfig{
			Brokers:    splitAndTrim(getEnv("KAFKA_BOOTSTRAP_SERVERS", "")),
			BatchTopic: getEnv("KAFKA_BATCH_TOPIC", "fulfillment.batches"),
		},
	}

	return cfg, cfg.validate()
}

func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Location resolves the reference time zone used to pin order dates.
func (i IngestConfig) Location() (*time.Location, error) {
	return time.LoadLocation(i.TimeZone)
}

/* ================= helpers ================= */

func (c *Config) validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("APP_PORT is invalid")
	}
	if c.DB.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if _, err := c.Ingest.Location(); err != nil {
		return fmt.Errorf("INGEST_TIME_ZONE is invalid: %w", err)
	}
	if c.Ingest.ReferenceHour < 0 || c.Ingest.ReferenceHour > 23 {
		return fmt.Errorf("INGEST_REFERENCE_HOUR must be between 0 and 23")
	}
	if c.Ingest.MaxGapSpan <= 0 {
		return fmt.Errorf("INGEST_MAX_GAP_SPAN must be positive")
	}
	switch c.Ingest.CSVEncoding {
	case "utf-8", "windows-1252":
	default:
		return fmt.Errorf("INGEST_CSV_ENCODING must be utf-8 or windows-1252")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if val := strings.TrimSpace(p); val != "" {
			out = append(out, val)
		}
	}
	return out
}
