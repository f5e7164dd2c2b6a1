package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

var ErrUnknownBackend = errors.New("unknown backend")

type Config struct {
	Port              int
	Backend           string
	SQLitePath        string
	PostgresURL       string
	PostgresMaxConns  int
	MongoURI          string
	MongoDatabase     string
	MigrateOnStart    bool
	JWTSecret         string
	TokenTTL          time.Duration
	AdminUser         string
	AdminPasswordHash string
	RequestTimeout    time.Duration
	ShutdownTimeout   time.Duration
}

// LoadConfig reads BLOG_* environment variables, falling back to defaults.
func LoadConfig() *Config {
	return &Config{
		Port:              getEnvAsInt("BLOG_PORT", 8088),
		Backend:           getEnv("BLOG_BACKEND", BackendMemory),
		SQLitePath:        getEnv("BLOG_SQLITE_PATH", "blog.db"),
		PostgresURL:       getEnv("BLOG_POSTGRES_URL", ""),
		PostgresMaxConns:  getEnvAsInt("BLOG_POSTGRES_MAX_CONNS", 50),
		MongoURI:          getEnv("BLOG_MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:     getEnv("BLOG_MONGO_DATABASE", "blog"),
		MigrateOnStart:    getEnvAsBool("BLOG_MIGRATE_ON_START", true),
		JWTSecret:         getEnv("BLOG_JWT_SECRET", ""),
		TokenTTL:          time.Duration(getEnvAsInt("BLOG_TOKEN_TTL_HOURS", 24)) * time.Hour,
		AdminUser:         getEnv("BLOG_ADMIN_USER", ""),
		AdminPasswordHash: getEnv("BLOG_ADMIN_PASSWORD_HASH", ""),
		RequestTimeout:    time.Duration(getEnvAsInt("BLOG_REQUEST_TIMEOUT_SEC", 10)) * time.Second,
		ShutdownTimeout:   time.Duration(getEnvAsInt("BLOG_SHUTDOWN_TIMEOUT_SEC", 5)) * time.Second,
	}
}

// Validate checks that the selected backend has what it needs to connect.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	switch c.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.SQLitePath == "" {
			return errors.New("sqlite backend needs BLOG_SQLITE_PATH")
		}
	case BackendPostgres:
		if c.PostgresURL == "" {
			return errors.New("postgres backend needs BLOG_POSTGRES_URL")
		}
	case BackendMongo:
		if c.MongoURI == "" || c.MongoDatabase == "" {
			return errors.New("mongo backend needs BLOG_MONGO_URI and BLOG_MONGO_DATABASE")
		}
	default:
		return fmt.Errorf("%w %q", ErrUnknownBackend, c.Backend)
	}
	if c.AdminUser != "" && c.JWTSecret == "" {
		return errors.New("BLOG_ADMIN_USER needs BLOG_JWT_SECRET")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// MigrationDSN returns the DSN migrations run against, or "" for backends without SQL migrations.
func (c *Config) MigrationDSN() string {
	switch c.Backend {
	case BackendSQLite:
		return c.SQLitePath
	case BackendPostgres:
		return c.PostgresURL
	}
	return ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
