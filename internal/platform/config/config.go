package config

import (
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Slot backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool
	JWTSecret    string
	LogLevel     string

	// Persistence
	SlotBackend   string
	DataDir       string
	SQLitePath    string
	DatabaseURL   string
	EnableDBCheck bool
	S3Bucket      string
	S3Prefix      string
	AWSRegion     string
	S3Endpoint    string

	// Static enumerations
	CatalogPath    string
	StatusWorkflow string // "open" or "strict"

	// HTTP edge
	RateLimit       string // ulule limiter format, e.g. "100-M"
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

// StrictWorkflow reports whether status transitions follow the catalog workflow.
func (c *Config) StrictWorkflow() bool {
	return c.StatusWorkflow == "strict"
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SLOT_BACKEND", BackendFile)
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("SQLITE_PATH", "data/hub.db")
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_PREFIX", "hub")
	v.SetDefault("AWS_REGION", "")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("CATALOG_PATH", "")
	v.SetDefault("STATUS_WORKFLOW", "open")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	v.AutomaticEnv()

	cfg := &Config{
		Port:         v.GetString("PORT"),
		IsProduction: v.GetBool("IS_PRODUCTION"),
		JWTSecret:    v.GetString("JWT_SECRET"),
		LogLevel:     v.GetString("LOG_LEVEL"),

		SlotBackend:   strings.ToLower(v.GetString("SLOT_BACKEND")),
		DataDir:       v.GetString("DATA_DIR"),
		SQLitePath:    v.GetString("SQLITE_PATH"),
		DatabaseURL:   v.GetString("PGSQL_URL"),
		EnableDBCheck: v.GetBool("ENABLE_DB_CHECK"),
		S3Bucket:      v.GetString("S3_BUCKET"),
		S3Prefix:      v.GetString("S3_PREFIX"),
		AWSRegion:     v.GetString("AWS_REGION"),
		S3Endpoint:    v.GetString("S3_ENDPOINT"),

		CatalogPath:    v.GetString("CATALOG_PATH"),
		StatusWorkflow: strings.ToLower(v.GetString("STATUS_WORKFLOW")),

		RateLimit: v.GetString("RATE_LIMIT"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	switch cfg.SlotBackend {
	case BackendMemory, BackendFile, BackendSQLite, BackendPostgres, BackendS3:
	default:
		log.Printf("Warning: Invalid value for SLOT_BACKEND ('%s'). Defaulting to %s.\n", cfg.SlotBackend, BackendFile)
		cfg.SlotBackend = BackendFile
	}
	if cfg.SlotBackend == BackendPostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	if cfg.StatusWorkflow != "open" && cfg.StatusWorkflow != "strict" {
		log.Printf("Warning: Invalid value for STATUS_WORKFLOW ('%s'). Defaulting to open.\n", cfg.StatusWorkflow)
		cfg.StatusWorkflow = "open"
	}

	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" && cfg.IsProduction {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	for _, origin := range strings.Split(v.GetString("CORS_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	// Load shutdown timeout (e.g., "10s")
	shutdownStr := v.GetString("SHUTDOWN_TIMEOUT")
	shutdown, err := time.ParseDuration(shutdownStr)
	if err != nil {
		shutdown = 10 * time.Second
		log.Printf("Warning: Invalid value for SHUTDOWN_TIMEOUT ('%s'). Defaulting to %s.\n", shutdownStr, shutdown)
	}
	cfg.ShutdownTimeout = shutdown

	return cfg, nil
}
