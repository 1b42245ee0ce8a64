// Package config loads process settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/wayss000/Inner-See-sub000/internal/apiclient"
	"github.com/wayss000/Inner-See-sub000/internal/llm"
	"github.com/wayss000/Inner-See-sub000/internal/logger"
	"github.com/wayss000/Inner-See-sub000/internal/store"
)

// Config is the full application configuration.
type Config struct {
	API apiclient.Config
	LLM llm.Config

	// DBPath is the local store file. Empty resolves to store.DefaultDBPath.
	DBPath string

	// QuestionBankPath is the packaged question database. Empty disables
	// the question bank.
	QuestionBankPath string

	// LogMode is "prod" or "dev". Empty disables logging.
	LogMode string
}

// Load reads .env (when present) and then the environment. Malformed values
// are logged and replaced by their defaults.
func Load(log *logger.Logger, files ...string) (Config, error) {
	log = logger.OrNop(log)

	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	cfg := Config{
		API:              apiclient.DefaultConfig(),
		LLM:              llm.ConfigFromEnv(),
		DBPath:           getEnv("INNERSEE_DB", ""),
		QuestionBankPath: getEnv("INNERSEE_QUESTION_BANK", ""),
		LogMode:          getEnv("INNERSEE_LOG_MODE", ""),
	}

	cfg.API.BaseURL = getEnv("INNERSEE_API_BASE_URL", cfg.API.BaseURL)
	cfg.API.Timeout = getDuration("INNERSEE_API_TIMEOUT", cfg.API.Timeout, log)
	cfg.API.RetryCount = getInt("INNERSEE_API_RETRY_COUNT", cfg.API.RetryCount, log)
	cfg.API.RetryDelay = getDuration("INNERSEE_API_RETRY_DELAY", cfg.API.RetryDelay, log)
	cfg.API.HealthTimeout = getDuration("INNERSEE_HEALTH_TIMEOUT", cfg.API.HealthTimeout, log)
	cfg.API.CacheTTL = getDuration("INNERSEE_CACHE_TTL", cfg.API.CacheTTL, log)
	cfg.API.RateLimit = getFloat("INNERSEE_API_RATE_LIMIT", cfg.API.RateLimit, log)

	// Fall back to the providers' standard key variables when nothing
	// INNERSEE-specific is configured.
	if os.Getenv("INNERSEE_LLM_PROVIDER") == "" && cfg.LLM.Validate() != nil {
		if discovered, ok := llm.DiscoverConfig(); ok {
			cfg.LLM = discovered
		}
	}

	if cfg.DBPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return Config{}, err
		}
		cfg.DBPath = p
	}

	return cfg, nil
}

// Validate rejects settings the client cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("INNERSEE_API_BASE_URL must not be empty")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("INNERSEE_API_TIMEOUT must be positive, got %s", c.API.Timeout)
	}
	if c.API.HealthTimeout <= 0 {
		return fmt.Errorf("INNERSEE_HEALTH_TIMEOUT must be positive, got %s", c.API.HealthTimeout)
	}
	if c.API.RetryCount < 0 {
		return fmt.Errorf("INNERSEE_API_RETRY_COUNT must not be negative, got %d", c.API.RetryCount)
	}
	if c.API.RetryDelay < 0 {
		return fmt.Errorf("INNERSEE_API_RETRY_DELAY must not be negative, got %s", c.API.RetryDelay)
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("INNERSEE_API_RATE_LIMIT must not be negative, got %v", c.API.RateLimit)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getInt(key string, def int, log *logger.Logger) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		log.Warn("invalid integer setting, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func getFloat(key string, def float64, log *logger.Logger) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Warn("invalid number setting, using default", "key", key, "value", v, "default", def)
		return def
	}
	return f
}

// getDuration accepts Go durations ("1.5s") or a bare number of milliseconds.
func getDuration(key string, def time.Duration, log *logger.Logger) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn("invalid duration setting, using default", "key", key, "value", v, "default", def.String())
		return def
	}
	return d
}
