package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Config holds application runtime configuration.
type Config struct {
	Env                string
	HTTPPort           string
	JWTSecret          string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	StorageDriver      string
	StateFile          string
	SQLitePath         string
	DatabaseURL        string
	SimulatedLatency   time.Duration
	ApprovalWriteback  bool
	OpenAPIPath        string
	LogLevel           slog.Level
	RateLimitPerMinute int
	CORSOrigins        []string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	ShutdownTimeout    time.Duration
}

// Load reads environment variables and .env (if present).
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:                getEnv("APP_ENV", "development"),
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		AccessTokenTTL:     getDuration("ACCESS_TOKEN_TTL", 24*time.Hour),
		RefreshTokenTTL:    getDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour),
		StorageDriver:      strings.ToLower(getEnv("STORAGE_DRIVER", StorageFile)),
		StateFile:          getEnv("STATE_FILE", "data/state.json"),
		SQLitePath:         getEnv("SQLITE_PATH", "data/leavedesk.db"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		SimulatedLatency:   getDuration("SIMULATED_LATENCY", time.Second),
		ApprovalWriteback:  getBool("APPROVAL_WRITEBACK", false),
		OpenAPIPath:        getEnv("OPENAPI_PATH", "api/openapi.yaml"),
		LogLevel:           getLevel("LOG_LEVEL", slog.LevelInfo),
		RateLimitPerMinute: getInt("RATE_LIMIT_PER_MINUTE", 200),
		CORSOrigins:        getList("CORS_ORIGINS", []string{"*"}),
		ReadTimeout:        getDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:       getDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:        getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:    getDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if cfg.JWTSecret == "" {
		return cfg, errors.New("JWT_SECRET is required")
	}
	switch cfg.StorageDriver {
	case StorageMemory, StorageFile, StorageSQLite:
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return cfg, errors.New("DATABASE_URL is required for the postgres storage driver")
		}
	default:
		return cfg, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		// Support seconds as integer without suffix.
		if secs, convErr := strconv.Atoi(val); convErr == nil {
			return time.Duration(secs) * time.Second
		}
		return fallback
	}
	return d
}

func getBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return b
}

func getInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getLevel(key string, fallback slog.Level) slog.Level {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(val)); err != nil {
		return fallback
	}
	return lvl
}

func getList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
