package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

var validate = validator.New()

type Config struct {
	Port            string   `validate:"required,numeric"`
	Environment     string   `validate:"oneof=development production test"`
	LogLevel        string   `validate:"oneof=debug info warn error"`
	StoreBackend    string   `validate:"oneof=memory sqlite mongo"`
	SQLitePath      string   `validate:"required_if=StoreBackend sqlite"`
	MongoDBURI      string   `validate:"required_if=StoreBackend mongo"`
	MongoDBPassword string   `validate:"-"`
	MongoDBDatabase string   `validate:"required"`
	JWTSecret       string   `validate:"required_without=JWKSURL"`
	JWKSURL         string   `validate:"omitempty,url"`
	AllowedOrigins  []string `validate:"min=1,dive,required"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:            getEnvWithDefault("PORT", "8080"),
		Environment:     getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:        strings.ToLower(getEnvWithDefault("LOG_LEVEL", "info")),
		StoreBackend:    strings.ToLower(getEnvWithDefault("STORE_BACKEND", BackendMemory)),
		SQLitePath:      getEnvWithDefault("SQLITE_PATH", "eventhub.db"),
		MongoDBURI:      os.Getenv("MONGODB_URI"),
		MongoDBPassword: os.Getenv("MONGODB_PASSWORD"),
		MongoDBDatabase: getEnvWithDefault("MONGODB_DATABASE", "eventhub"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWKSURL:         os.Getenv("JWKS_URL"),
		AllowedOrigins:  splitList(getEnvWithDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	// Supabase projects publish their signing keys at a well-known path
	if cfg.JWKSURL == "" {
		if supabaseURL := strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"); supabaseURL != "" {
			cfg.JWKSURL = supabaseURL + "/auth/v1/.well-known/jwks.json"
		}
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// SlogLevel converts LogLevel, already validated, into a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
