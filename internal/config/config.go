// config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Port               string
	Environment        string
	LogLevel           string
	StoreDriver        string
	MongoURI           string
	MongoDBName        string
	PostgresDSN        string
	RabbitURL          string
	AdminSecret        string
	SessionSigningKey  string
	SessionTTL         time.Duration
	CORSAllowedOrigins []string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// a missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_DRIVER", DriverMongo)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB_NAME", "shipment_tracking_db")
	v.SetDefault("POSTGRES_DSN", "")
	v.SetDefault("RABBIT_URL", "")
	v.SetDefault("ADMIN_SECRET", "")
	v.SetDefault("SESSION_SIGNING_KEY", "")
	v.SetDefault("SESSION_TTL", "12h")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	ttl, err := time.ParseDuration(v.GetString("SESSION_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}

	cfg := &Config{
		Port:               v.GetString("PORT"),
		Environment:        v.GetString("ENVIRONMENT"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		StoreDriver:        strings.ToLower(v.GetString("STORE_DRIVER")),
		MongoURI:           v.GetString("MONGO_URI"),
		MongoDBName:        v.GetString("MONGO_DB_NAME"),
		PostgresDSN:        v.GetString("POSTGRES_DSN"),
		RabbitURL:          v.GetString("RABBIT_URL"),
		AdminSecret:        v.GetString("ADMIN_SECRET"),
		SessionSigningKey:  v.GetString("SESSION_SIGNING_KEY"),
		SessionTTL:         ttl,
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}

	// local runs on the memory store get a throwaway gate
	if cfg.StoreDriver == DriverMemory {
		if cfg.AdminSecret == "" {
			cfg.AdminSecret = "change-me"
		}
		if cfg.SessionSigningKey == "" {
			cfg.SessionSigningKey = "local-development-key"
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI is required for the mongo store"))
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("POSTGRES_DSN is required for the postgres store"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	if c.AdminSecret == "" {
		errs = append(errs, errors.New("ADMIN_SECRET is required"))
	}
	if c.SessionSigningKey == "" {
		errs = append(errs, errors.New("SESSION_SIGNING_KEY is required"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	return errors.Join(errs...)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
