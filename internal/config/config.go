package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	HTTPAddr      string
	GRPCAddr      string
	DBDriver      string
	DBDSN         string
	DBMaxConns    int
	DBLogQueries  bool
	RedisAddr     string // empty disables the idempotency guard
	TxTimeout     time.Duration
	ShutdownGrace time.Duration
	CORSOrigins   []string
	LogLevel      zerolog.Level
	LogPretty     bool
	Seed          bool
}

// Load reads .env when present, then the process environment. A missing .env
// is fine; a malformed value is not.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:  getenv("QUICKMART_HTTP_ADDR", ":8080"),
		GRPCAddr:  getenv("QUICKMART_GRPC_ADDR", ":50051"),
		DBDriver:  getenv("QUICKMART_DB_DRIVER", "sqlite"),
		DBDSN:     getenv("QUICKMART_DB_DSN", "quickmart.db"),
		RedisAddr: os.Getenv("QUICKMART_REDIS_ADDR"),
	}

	var err error
	if cfg.DBMaxConns, err = getint("QUICKMART_DB_MAX_CONNS", 50); err != nil {
		return nil, err
	}
	if cfg.DBLogQueries, err = getbool("QUICKMART_DB_LOG_QUERIES", false); err != nil {
		return nil, err
	}
	if cfg.TxTimeout, err = getduration("QUICKMART_TX_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.ShutdownGrace, err = getduration("QUICKMART_SHUTDOWN_GRACE", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.LogPretty, err = getbool("QUICKMART_LOG_PRETTY", false); err != nil {
		return nil, err
	}
	if cfg.Seed, err = getbool("QUICKMART_SEED", false); err != nil {
		return nil, err
	}

	cfg.LogLevel, err = zerolog.ParseLevel(getenv("QUICKMART_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("QUICKMART_LOG_LEVEL: %w", err)
	}

	for _, origin := range strings.Split(getenv("QUICKMART_CORS_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	switch cfg.DBDriver {
	case "mysql", "sqlite":
	default:
		return nil, fmt.Errorf("QUICKMART_DB_DRIVER: unsupported driver %q", cfg.DBDriver)
	}
	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func getbool(k string, def bool) (bool, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", k, err)
	}
	return b, nil
}

func getduration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive", k)
	}
	return d, nil
}
