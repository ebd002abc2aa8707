package config

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	_ "github.com/joho/godotenv/autoload"
)

const (
	UsersSourceEmbedded = "embedded"
	UsersSourceFile     = "file"
	UsersSourcePostgres = "postgres"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	APIBaseURL   string
	Port         string
	FetchTimeout time.Duration

	UsersSource string
	UsersFile   string
	DatabaseURL string

	RedisAddress  string
	RedisPassword string

	// JWTPublicKey is nil when the trigger endpoint is left open.
	JWTPublicKey *rsa.PublicKey

	CORSAllowedOrigins []string
	SessionTTL         time.Duration
	DefaultLanguage    string
	LogLevel           string
	LogFile            string
	Version            string

	// TriggerRateLimit uses the "<limit>-<S|M|H|D>" format, e.g. "5-M".
	TriggerRateLimit string
}

// Load reads the environment and validates it. Nothing is defaulted that
// the service cannot run without.
func Load() (*Config, error) {
	baseURL, err := parseBaseURL(os.Getenv("API_BASE_URL"))
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "0")
	if err != nil {
		return nil, err
	}
	sessionTTL, err := parseDuration("DASHBOARD_SESSION_TTL", "10m")
	if err != nil {
		return nil, err
	}
	if sessionTTL <= 0 {
		return nil, fmt.Errorf("%w: DASHBOARD_SESSION_TTL must be positive", ErrInvalidConfig)
	}

	cfg := &Config{
		APIBaseURL:         baseURL,
		Port:               getEnv("PORT", "8080"),
		FetchTimeout:       fetchTimeout,
		UsersSource:        strings.ToLower(getEnv("USERS_SOURCE", UsersSourceEmbedded)),
		UsersFile:          os.Getenv("USERS_FILE"),
		DatabaseURL:        os.Getenv("DB_CONNECTION_STRING"),
		RedisAddress:       os.Getenv("REDIS_ADDRESS"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		SessionTTL:         sessionTTL,
		DefaultLanguage:    getEnv("DEFAULT_LANGUAGE", "ja"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFile:            os.Getenv("LOG_FILE"),
		Version:            getEnv("APP_VERSION", "unknown"),
		TriggerRateLimit:   getEnv("TRIGGER_RATE_LIMIT", "5-M"),
	}

	switch cfg.UsersSource {
	case UsersSourceEmbedded:
	case UsersSourceFile:
		if cfg.UsersFile == "" {
			return nil, fmt.Errorf("%w: USERS_FILE is required for the file user source", ErrInvalidConfig)
		}
	case UsersSourcePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("%w: DB_CONNECTION_STRING is required for the postgres user source", ErrInvalidConfig)
		}
	default:
		return nil, fmt.Errorf("%w: unknown USERS_SOURCE %q", ErrInvalidConfig, cfg.UsersSource)
	}

	if path := os.Getenv("PUBLIC_KEY_PATH"); path != "" {
		publicKey, err := loadPublicKey(path)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to load public key: %v", ErrInvalidConfig, err)
		}
		cfg.JWTPublicKey = publicKey
	}

	return cfg, nil
}

func parseBaseURL(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: API_BASE_URL environment variable is required", ErrInvalidConfig)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: API_BASE_URL must be an absolute http(s) URL, got %q", ErrInvalidConfig, raw)
	}
	return strings.TrimRight(raw, "/"), nil
}

func parseDuration(key, fallback string) (time.Duration, error) {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, key)
	}
	return d, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func loadPublicKey(path string) (*rsa.PublicKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(keyData)
	if err != nil {
		return nil, err
	}
	return publicKey, nil
}
