package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port string

	DB    DBConfig
	Redis RedisConfig

	RateLimit       int
	RateLimitWindow time.Duration

	UndoEditTTL   time.Duration
	UndoDeleteTTL time.Duration
	CacheTTL      time.Duration

	CORSOrigins    []string
	SwaggerEnabled bool
}

type DBConfig struct {
	// Driver is one of "pgx", "postgres" (lib/pq), "sqlite" or "memory".
	Driver     string
	User       string
	Password   string
	Host       string
	Port       string
	Name       string
	SSLMode    string
	SQLitePath string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Load reads the process environment. A .env file in the working directory,
// when present, fills in variables that are not already set.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		Env:  getEnv("APP_ENV", "development"),
		Port: getEnv("PORT", "4000"),
		DB: DBConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", "pgx")),
			User:       getEnv("DB_USER", "kanso_user"),
			Password:   getEnv("DB_PASSWORD", ""),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			Name:       getEnv("DB_NAME", "kanso_db"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			SQLitePath: getEnv("SQLITE_PATH", "data/goals.db"),
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
	}

	var err error
	if cfg.Redis.DB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = getInt("RATE_LIMIT", 100); err != nil {
		return nil, err
	}
	if cfg.RateLimitWindow, err = getDuration("RATE_LIMIT_WINDOW", time.Minute); err != nil {
		return nil, err
	}
	if cfg.UndoEditTTL, err = getDuration("UNDO_EDIT_TTL", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.UndoDeleteTTL, err = getDuration("UNDO_DELETE_TTL", 4*time.Second); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SwaggerEnabled, err = getBool("SWAGGER_ENABLED", cfg.IsDevelopment()); err != nil {
		return nil, err
	}

	switch cfg.DB.Driver {
	case "pgx", "postgres", "sqlite", "memory":
	default:
		return nil, fmt.Errorf("config: unsupported DB_DRIVER %q", cfg.DB.Driver)
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env != "production"
}

// DSN returns the connection string for the configured driver. It is empty
// for the in-memory store.
func (c DBConfig) DSN() string {
	switch c.Driver {
	case "sqlite":
		return c.SQLitePath + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	case "memory":
		return ""
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     c.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// Enabled reports whether a redis host is configured. Without one the
// service runs with no list cache, no rate limit and in-memory preferences.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be a duration: %w", key, err)
	}
	return d, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s must be a boolean: %w", key, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
