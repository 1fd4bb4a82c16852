package clipsync

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/clipsync/core/config"
	"github.com/dmitrymomot/clipsync/core/logger"
	"github.com/dmitrymomot/clipsync/core/server"
	"github.com/dmitrymomot/clipsync/middleware"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

var (
	ErrInvalidPort       = errors.New("invalid port")
	ErrInvalidSSEBuffer  = errors.New("sse buffer must be at least 1")
	ErrInvalidLogLevel   = errors.New("invalid log level")
	ErrInvalidUploadSize = errors.New("max upload size must be positive")
)

type Config struct {
	Server server.Config

	AppName  string `env:"APP_NAME" envDefault:"clipsync"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL"`
	HTTPHost string `env:"HTTP_HOST"`
	Port     int    `env:"PORT" envDefault:"18889"`

	SSEKeepAlive  time.Duration `env:"SSE_KEEPALIVE" envDefault:"30s"`
	SSEBuffer     int           `env:"SSE_BUFFER" envDefault:"16"`
	MaxUploadSize int64         `env:"MAX_UPLOAD_SIZE" envDefault:"67108864"` // 64MB
}

// LoadConfig reads the environment (and .env) and validates the result.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Normalize canonicalizes APP_ENV, validates values and derives the listen address.
func (c *Config) Normalize() error {
	c.Env = normalizeEnv(c.Env)

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Port)
	}
	if c.SSEBuffer < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidSSEBuffer, c.SSEBuffer)
	}
	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidUploadSize, c.MaxUploadSize)
	}
	if _, err := c.level(); err != nil {
		return err
	}

	c.Server.Addr = net.JoinHostPort(c.HTTPHost, strconv.Itoa(c.Port))
	return nil
}

func (c Config) IsProduction() bool { return c.Env == EnvProduction }

// Logger builds the application logger: JSON in production, text otherwise.
// Every record carries the request trace id when there is one.
func (c Config) Logger(opts ...logger.Option) *slog.Logger {
	base := []logger.Option{logger.WithDevelopment(c.AppName)}
	if c.IsProduction() {
		base = []logger.Option{logger.WithProduction(c.AppName)}
	}
	if lvl, err := c.level(); err == nil && c.LogLevel != "" {
		base = append(base, logger.WithLevel(lvl))
	}
	base = append(base, logger.WithContextExtractors(middleware.TraceIDExtractor))
	return logger.New(append(base, opts...)...)
}

func (c Config) level() (slog.Level, error) {
	var lvl slog.Level
	if c.LogLevel == "" {
		return lvl, nil
	}
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return lvl, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	return lvl, nil
}

func normalizeEnv(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "", "dev", "development":
		return EnvDevelopment
	case "prod", "production":
		return EnvProduction
	}
	return env
}
