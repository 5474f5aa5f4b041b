package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/target/folio/config"
)

const defaultEnvFile = ".env"

// InitLogger initializes the JSON logger on stdout and makes it the default.
// Dev mode logs at debug level with source locations.
func InitLogger(isDev bool) *slog.Logger {
	return initLogger(os.Stdout, isDev)
}

func initLogger(w io.Writer, isDev bool) *slog.Logger {
	level := slog.LevelInfo
	if isDev {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: isDev,
	})).With("service", "folio")
	slog.SetDefault(logger)
	return logger
}

// LoadConfig loads configuration from the environment. Values from the file
// named by ENV_FILE (default .env) fill in unset variables; a missing file is
// not an error.
func LoadConfig() (config.AppConfig, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = defaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.AppConfig{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}
