package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/storage"
	"golang.org/x/text/currency"
)

type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendFile     Backend = "file"
	BackendPostgres Backend = "postgres"
	BackendRedis    Backend = "redis"
	BackendMongo    Backend = "mongo"
)

type Config struct {
	HTTPPort        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	Backend     Backend
	StorageKey  string
	StorageDir  string
	PostgresDSN string
	RedisAddr   string
	RedisPrefix string
	RedisTTL    time.Duration
	MongoURI    string
	MongoDB     string

	Currency currency.Unit
	LogLevel string
}

// Load reads .env files when present, then environment variables.
// Variables already set in the environment take precedence over .env values.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("godotenv.Load: %w", err)
	}

	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary variable source.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, defaultValue string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		return defaultValue
	}

	var errs []error

	duration := func(key, defaultValue string) time.Duration {
		raw := get(key, defaultValue)
		d, err := time.ParseDuration(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s[%s] is not a duration: %w", key, raw, err))
		}
		return d
	}

	cfg := Config{
		HTTPPort:        get("HTTP_PORT", "8080"),
		RequestTimeout:  duration("REQUEST_TIMEOUT", "5s"),
		ShutdownTimeout: duration("SHUTDOWN_TIMEOUT", "10s"),

		Backend:     Backend(strings.ToLower(get("STORAGE_BACKEND", string(BackendFile)))),
		StorageKey:  get("STORAGE_KEY", storage.DefaultCartKey),
		StorageDir:  get("STORAGE_DIR", ".storefront"),
		PostgresDSN: get("POSTGRES_DSN", ""),
		RedisAddr:   get("REDIS_ADDR", "localhost:6379"),
		RedisPrefix: get("REDIS_PREFIX", "storefront:"),
		RedisTTL:    duration("REDIS_TTL", "0s"),
		MongoURI:    get("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:     get("MONGO_DATABASE", "storefront"),

		LogLevel: get("LOG_LEVEL", "info"),
	}

	rawCurrency := get("CART_CURRENCY", domain.DefaultCurrency.String())
	cur, err := currency.ParseISO(rawCurrency)
	if err != nil {
		errs = append(errs, fmt.Errorf("CART_CURRENCY[%s] is not valid: %w", rawCurrency, err))
	}
	cfg.Currency = cur

	switch cfg.Backend {
	case BackendMemory, BackendFile, BackendRedis, BackendMongo:
	case BackendPostgres:
		if cfg.PostgresDSN == "" {
			errs = append(errs, fmt.Errorf("POSTGRES_DSN is empty"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_BACKEND[%s] is not supported", cfg.Backend))
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
