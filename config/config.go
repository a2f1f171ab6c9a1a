package config

import (
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const defaultConfigFile = "config/config.json"

// AppConfig holds the runtime configuration. Values come from config/config.json, then env-default
// tags, then the environment. Secrets have no defaults and must be provided via .env or the environment.
type AppConfig struct {
	App      AppSection      `json:"app"`
	Database DatabaseSection `json:"database"`
	Redis    RedisSection    `json:"redis"`
	Session  SessionSection  `json:"session"`
	Log      LogSection      `json:"log"`
}

// AppSection configures the HTTP server.
type AppSection struct {
	Port               string   `json:"port" env:"APP_PORT" env-default:"8080"`
	GinMode            string   `json:"gin_mode" env:"GIN_MODE" env-default:"release"`
	// GinPath is the access log file; empty shares the application logger.
	GinPath            string   `json:"gin_path" env:"GIN_LOG_PATH"`
	RateLimitPerMinute int      `json:"rate_limit_per_minute" env:"RATE_LIMIT_PER_MINUTE" env-default:"60"`
	AllowedOrigins     []string `json:"allowed_origins" env:"ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
}

// DatabaseSection locates the MySQL database.
type DatabaseSection struct {
	URI      string `json:"uri" env:"DATABASE_URI"`
	Host     string `json:"host" env:"DB_HOST" env-default:"127.0.0.1"`
	Port     string `json:"port" env:"DB_PORT" env-default:"3306"`
	User     string `json:"user" env:"DB_USER" env-default:"root"`
	Password string `json:"password" env:"DB_PASSWORD"`
	Name     string `json:"name" env:"DB_NAME" env-default:"blog"`
}

// RedisSection locates the Redis session store.
type RedisSection struct {
	Host     string `json:"host" env:"REDIS_HOST" env-default:"127.0.0.1"`
	Port     int    `json:"port" env:"REDIS_PORT" env-default:"6379"`
	DB       int    `json:"db" env:"REDIS_DB" env-default:"0"`
	Password string `json:"password" env:"REDIS_PASSWORD"`
}

// SessionSection controls the session cookie and its lifetime.
type SessionSection struct {
	CookieName string `json:"cookie_name" env:"SESSION_COOKIE_NAME" env-default:"session_id"`
	TTLMinutes int    `json:"ttl_minutes" env:"SESSION_TTL_MINUTES" env-default:"30"`
	Secure     bool   `json:"secure" env:"SESSION_COOKIE_SECURE"`
}

// LogSection sets the log level and the rolling log file.
type LogSection struct {
	Level      string `json:"level" env:"LOG_LEVEL" env-default:"info"`
	Path       string `json:"path" env:"LOG_PATH" env-default:"logs/app.log"`
	MaxSizeMB  int    `json:"max_size_mb" env:"LOG_MAX_SIZE_MB" env-default:"100"`
	MaxBackups int    `json:"max_backups" env:"LOG_MAX_BACKUPS" env-default:"3"`
	MaxAgeDays int    `json:"max_age_days" env:"LOG_MAX_AGE_DAYS" env-default:"7"`
	Compress   bool   `json:"compress" env:"LOG_COMPRESS"`
}

var (
	cfg      AppConfig
	loadOnce sync.Once
)

// Load reads configuration once and caches it for later Get calls.
func Load() AppConfig {
	loadOnce.Do(func() {
		c, err := Read(configPath())
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		cfg = c
	})
	return cfg
}

// Get returns the cached configuration, loading it on first use.
func Get() AppConfig {
	return Load()
}

// Read builds a configuration from the given JSON file. A missing file is not an error: defaults
// and environment variables still apply.
func Read(path string) (AppConfig, error) {
	// .env only feeds the environment; variables already set win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return AppConfig{}, fmt.Errorf("load .env: %w", err)
	}

	var c AppConfig
	if _, statErr := os.Stat(path); statErr == nil {
		if err := cleanenv.ReadConfig(path, &c); err != nil {
			return AppConfig{}, fmt.Errorf("read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&c); err != nil {
		return AppConfig{}, fmt.Errorf("read env: %w", err)
	}

	c.normalize()
	return c, nil
}

func configPath() string {
	if p := strings.TrimSpace(os.Getenv("CONFIG_FILE")); p != "" {
		return p
	}
	return defaultConfigFile
}

func (c *AppConfig) normalize() {
	c.App.GinMode = strings.ToLower(strings.TrimSpace(c.App.GinMode))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))

	origins := c.App.AllowedOrigins[:0]
	for _, o := range c.App.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c.App.AllowedOrigins = origins

	if c.App.RateLimitPerMinute < 1 {
		c.App.RateLimitPerMinute = 1
	}
	if c.Session.TTLMinutes < 1 {
		c.Session.TTLMinutes = 30
	}
}

// HTTPAddr is the listen address for the HTTP server.
func (c AppConfig) HTTPAddr() string {
	return ":" + strings.TrimPrefix(c.App.Port, ":")
}

// RedisAddr joins the configured Redis host and port.
func (c AppConfig) RedisAddr() string {
	return net.JoinHostPort(c.Redis.Host, strconv.Itoa(c.Redis.Port))
}

// MySQLDSN returns Database.URI when set, otherwise a DSN assembled from the parts.
func (c AppConfig) MySQLDSN() string {
	if c.Database.URI != "" {
		return c.Database.URI
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}
