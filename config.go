package pandey

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	DatabaseURL    string        `env:"DATABASE_URL"`
	QueryTimeout   time.Duration `env:"DB_QUERY_TIMEOUT" envDefault:"5s"`
	AutoMigrate    bool          `env:"DB_AUTO_MIGRATE" envDefault:"true"`
	JWTSecret      string        `env:"JWT_SIGNING_SECRET"`
	JWTIssuer      string        `env:"JWT_ISSUER" envDefault:"pandey-computer"`
	JWTTTL         time.Duration `env:"JWT_TTL" envDefault:"24h"`
	AdminEmail     string        `env:"ADMIN_EMAIL"`
	AdminPassword  string        `env:"ADMIN_PASSWORD"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	MaxImageBytes  int64         `env:"MAX_IMAGE_BYTES" envDefault:"5242880"`
	AllowedOrigins []string      `env:"CORS_ORIGINS" envSeparator:","`
}

type ConfigResult struct {
	fx.Out

	Config Config
}

// NewConfig reads an optional .env file and then the process environment.
func NewConfig() (ConfigResult, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return ConfigResult{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return ConfigResult{}, err
	}

	return ConfigResult{Config: cfg}, nil
}

func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.DatabaseURL) == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}

	if strings.TrimSpace(c.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SIGNING_SECRET is required"))
	}

	if c.QueryTimeout <= 0 {
		errs = append(errs, errors.New("DB_QUERY_TIMEOUT must be positive"))
	}

	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}

	if c.MaxImageBytes <= 0 {
		errs = append(errs, errors.New("MAX_IMAGE_BYTES must be positive"))
	}

	return errors.Join(errs...)
}

func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
