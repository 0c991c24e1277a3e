package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var validEnvs = map[string]bool{
	"local": true,
	"alpha": true,
	"beta":  true,
	"prod":  true,
}

// Store backends selectable through STORE.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

var validDrivers = map[string]bool{
	"postgres": true,
	"pgx":      true,
}

type Config struct {
	ServerPort string
	AppEnv     string
	LogLevel   string
	Store      string
	AuthSecret string
	DB         DBConfig
}

func (c Config) ParseLogLevel() slog.Level {
	return parseLevel(c.LogLevel)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("invalid SERVER_PORT %q: %w", c.ServerPort, err)
	}
	if !validEnvs[c.AppEnv] {
		return fmt.Errorf("invalid APP_ENV %q: must be one of local, alpha, beta, prod", c.AppEnv)
	}
	if c.Store != StorePostgres && c.Store != StoreMemory {
		return fmt.Errorf("invalid STORE %q: must be postgres or memory", c.Store)
	}
	if c.Store == StorePostgres && !validDrivers[c.DB.Driver] {
		return fmt.Errorf("invalid DB_DRIVER %q: must be postgres or pgx", c.DB.Driver)
	}
	if c.AuthSecret == "" && c.AppEnv != "local" {
		return fmt.Errorf("AUTH_SECRET is required in %s environment", c.AppEnv)
	}
	return nil
}

type DBConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Migrate  bool
}

func (d DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     d.Name,
		RawQuery: fmt.Sprintf("sslmode=%s", url.QueryEscape(d.SSLMode)),
	}
	return u.String()
}

// Load reads the server configuration from the environment. A .env file in
// the working directory is applied first without overriding variables that
// are already set.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		ServerPort: envOrDefault("SERVER_PORT", "8080"),
		AppEnv:     envOrDefault("APP_ENV", "local"),
		LogLevel:   envOrDefault("LOG_LEVEL", "info"),
		Store:      strings.ToLower(envOrDefault("STORE", StorePostgres)),
		AuthSecret: os.Getenv("AUTH_SECRET"),
		DB: DBConfig{
			Driver:   strings.ToLower(envOrDefault("DB_DRIVER", "postgres")),
			Host:     envOrDefault("DB_HOST", "localhost"),
			Port:     envOrDefault("DB_PORT", "5432"),
			User:     envOrDefault("DB_USER", "todo"),
			Password: envOrDefault("DB_PASSWORD", "todo"),
			Name:     envOrDefault("DB_NAME", "todo"),
			SSLMode:  envOrDefault("DB_SSLMODE", "disable"),
			Migrate:  strings.EqualFold(envOrDefault("DB_MIGRATE", "true"), "true"),
		},
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
