package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds runtime settings loaded from the environment.
type Config struct {
	Environment string
	HTTPAddr    string
	DatabaseURL string
	LogLevel    string

	// SnowflakeNode identifies this instance for ID generation.
	SnowflakeNode int64

	// DefaultSchoolYear is used by bootstrap seeding when no year is supplied.
	DefaultSchoolYear string
}

// IsProduction reports whether the service runs in production mode.
func (c Config) IsProduction() bool { return c.Environment == "production" }

// Load reads configuration from the environment, honoring a local .env file
// when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment:       getEnv("SCOLAPP_ENV", "development"),
		HTTPAddr:          getEnv("SCOLAPP_HTTP_ADDR", ":8080"),
		DatabaseURL:       os.Getenv("SCOLAPP_DATABASE_URL"),
		LogLevel:          getEnv("SCOLAPP_LOG_LEVEL", "info"),
		SnowflakeNode:     1,
		DefaultSchoolYear: os.Getenv("SCOLAPP_DEFAULT_SCHOOL_YEAR"),
	}

	if raw := os.Getenv("SCOLAPP_SNOWFLAKE_NODE"); raw != "" {
		node, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Config{}, err
		}
		cfg.SnowflakeNode = node
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
