package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends
const (
	BackendPostgres  = "postgres"
	BackendSQLite    = "sqlite"
	BackendFirestore = "firestore"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment

	// Server configuration
	ServerPort  string   `validate:"required,numeric"`
	ServerHost  string
	CORSOrigins []string `validate:"dive,required"`

	// Store selection
	StoreBackend string `validate:"required,oneof=postgres sqlite firestore"`

	// Database configuration
	DBHost        string `validate:"required_if=StoreBackend postgres"`
	DBPort        string `validate:"required_if=StoreBackend postgres"`
	DBUser        string `validate:"required_if=StoreBackend postgres"`
	DBPassword    string
	DBName        string `validate:"required_if=StoreBackend postgres"`
	DBSSLMode     string `validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	SQLitePath    string `validate:"required_if=StoreBackend sqlite"`
	MigrationsDir string

	// Firestore configuration
	FirestoreProjectID string `validate:"required_if=StoreBackend firestore"`

	// Redis configuration. Redis is optional; without it live feeds stay
	// in-process and rate limiting is off.
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string        `validate:"required,min=8"`
	TokenTTL  time.Duration `validate:"gt=0"`

	// Image storage
	S3Bucket  string
	AWSRegion string
}

// RedisEnabled reports whether a Redis endpoint was configured
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// DSN returns the PostgreSQL connection string
func (c *Config) DSN() string {
	sslMode := c.DBSSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, sslMode)
}

// lookupFunc resolves one setting by its secret-file name (e.g. "db_host").
type lookupFunc func(name string) string

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	if env.LoadsDotEnv() {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Printf("[Config] failed to load .env: %v", err)
		}
	}

	var lookup lookupFunc
	switch env {
	case CI:
		lookup = fromEnv
	case Development, Test:
		lookup = firstOf(fromEnv, readSecret)
	case Production:
		lookup = firstOf(readSecret, fromEnv)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	cfg, err := build(env, lookup)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func build(env Environment, get lookupFunc) (*Config, error) {
	cfg := &Config{
		Env:                env,
		ServerPort:         withDefault(get("server_port"), "8080"),
		ServerHost:         withDefault(get("server_host"), "0.0.0.0"),
		CORSOrigins:        splitList(get("cors_origins")),
		StoreBackend:       withDefault(get("store_backend"), BackendPostgres),
		DBHost:             get("db_host"),
		DBPort:             withDefault(get("db_port"), "5432"),
		DBUser:             get("db_user"),
		DBPassword:         get("db_password"),
		DBName:             get("db_name"),
		DBSSLMode:          get("db_ssl_mode"),
		SQLitePath:         get("sqlite_path"),
		MigrationsDir:      withDefault(get("migrations_dir"), "migrations"),
		FirestoreProjectID: get("firestore_project_id"),
		RedisHost:          get("redis_host"),
		RedisPort:          withDefault(get("redis_port"), "6379"),
		RedisPassword:      get("redis_password"),
		RedisURL:           get("redis_url"),
		JWTSecret:          get("jwt_secret"),
		TokenTTL:           24 * time.Hour,
		S3Bucket:           withDefault(get("s3_bucket_name"), "receitas-images"),
		AWSRegion:          withDefault(get("aws_region"), "us-east-1"),
	}

	if v := get("redis_db"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		cfg.RedisDB = db
	}
	if v := get("token_ttl"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_TTL %q: %w", v, err)
		}
		cfg.TokenTTL = ttl
	}

	return cfg, nil
}

// fromEnv reads the upper-case environment variable for a secret name
func fromEnv(name string) string {
	return strings.TrimSpace(os.Getenv(strings.ToUpper(name)))
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func firstOf(sources ...lookupFunc) lookupFunc {
	return func(name string) string {
		for _, src := range sources {
			if v := src(name); v != "" {
				return v
			}
		}
		return ""
	}
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
