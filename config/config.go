package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadENV loads variables from .env when GO_ENV is unset or "development".
// A missing .env file is fine; the process environment is used as-is.
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	return nil
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type EnvironmentVariable struct {
	GO_ENV string
	PORT   int

	// Database
	DB_DRIVER    string
	DB_PATH      string
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string

	// Model service
	OLLAMA_HOST          string
	OLLAMA_MODEL         string
	MODEL_TIMEOUT        time.Duration
	MODEL_STREAM_TIMEOUT time.Duration
	MODEL_PROBE_TIMEOUT  time.Duration

	// HTTP surface
	UPLOAD_MAX_BYTES      int
	VIEWS_DIR             string
	ALLOWED_ORIGINS       string
	RATE_LIMIT_PER_MINUTE int

	// Redis status cache (optional)
	REDIS_URL        string
	STATUS_CACHE_TTL time.Duration
}

// IsProduction reports whether GO_ENV selects production behaviour.
func (e *EnvironmentVariable) IsProduction() bool {
	return e.GO_ENV == "production"
}

func Get() (*EnvironmentVariable, error) {
	goEnv := getString("GO_ENV", "development")

	driver := strings.ToLower(getString("DB_DRIVER", DriverSQLite))
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, errors.New("DB_DRIVER must be \"sqlite\" or \"postgres\", got " + strconv.Quote(driver))
	}

	envVariables := &EnvironmentVariable{
		GO_ENV: goEnv,
		PORT:   getInt("PORT", 5000),

		DB_DRIVER:    driver,
		DB_PATH:      getString("DB_PATH", "college_hub.db"),
		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      os.Getenv("DB_NAME"),
		DB_HOST:      getString("DB_HOST", "localhost"),
		DB_PORT:      getString("DB_PORT", "5432"),
		DB_SSL_MODE:  getString("DB_SSL_MODE", "disable"),

		OLLAMA_HOST:          strings.TrimSuffix(getString("OLLAMA_HOST", "http://localhost:11434"), "/"),
		OLLAMA_MODEL:         getString("OLLAMA_MODEL", "llama3.1:8b"),
		MODEL_TIMEOUT:        getSeconds("MODEL_TIMEOUT_SECONDS", 120),
		MODEL_STREAM_TIMEOUT: getSeconds("MODEL_STREAM_TIMEOUT_SECONDS", 300),
		MODEL_PROBE_TIMEOUT:  getSeconds("MODEL_PROBE_TIMEOUT_SECONDS", 3),

		UPLOAD_MAX_BYTES:      getInt("UPLOAD_MAX_BYTES", 10*1024*1024),
		VIEWS_DIR:             getString("VIEWS_DIR", "./views"),
		ALLOWED_ORIGINS:       getString("ALLOWED_ORIGINS", "http://localhost:5000"),
		RATE_LIMIT_PER_MINUTE: getInt("RATE_LIMIT_PER_MINUTE", 120),

		REDIS_URL:        os.Getenv("REDIS_URL"),
		STATUS_CACHE_TTL: getSeconds("STATUS_CACHE_TTL_SECONDS", 10),
	}

	return envVariables, nil
}

func getString(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}

// getInt falls back to def for empty, malformed, or negative values.
func getInt(name string, def int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil || i < 0 {
		return def
	}
	return i
}

func getSeconds(name string, def int) time.Duration {
	secs := getInt(name, def)
	if secs == 0 {
		secs = def
	}
	return time.Duration(secs) * time.Second
}
