package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aussiebroadwan/quizdesk/internal/service"
	"github.com/aussiebroadwan/quizdesk/internal/store"
)

// Role selects which HTTP surface a process serves.
type Role string

const (
	RoleAuth  Role = "auth"
	RoleQuiz  Role = "quiz"
	RoleUsers Role = "users"
)

var defaultPorts = map[Role]int{
	RoleAuth:  8003,
	RoleQuiz:  8005,
	RoleUsers: 8004,
}

func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := defaultPorts[r]; !ok {
		return "", fmt.Errorf("unknown service %q (want auth, quiz or users)", s)
	}
	return r, nil
}

// ConfigPathEnv names the config file when --config is not given.
const ConfigPathEnv = "QUIZDESK_CONFIG"

type Config struct {
	Role Role

	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)
	Port      int    // HTTP server port (default depends on role)

	DBDriver     string        // sqlite or postgres (default: sqlite)
	DBDSN        string        // sqlite file path or postgres URL (default: quizdesk.db)
	StoreTimeout time.Duration // Per-operation store deadline (default: 3s)

	PepperFile      string        // Password pepper, created on first start (default: ./pepper)
	TokenTTL        time.Duration // Login token lifetime, 0 never expires (default: 168h)
	HashConcurrency int           // Concurrent password hashes (default: 8)

	AuthURL     string        // Base URL of the auth service (default: http://localhost:8003)
	AuthTimeout time.Duration // Token verification timeout (default: 3s)

	RedisAddr      string        // Optional: answer-key cache
	RedisPassword  string        // Optional
	RedisDB        int           // Optional (default: 0)
	AnswerCacheTTL time.Duration // Answer-key entry lifetime (default: 24h)

	HousekeepingInterval time.Duration // Expired token sweep interval (default: 1h)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
}

// LoadConfig reads the optional YAML file at path and lets the environment
// override any key in it. File keys are the environment names in lower
// case, e.g. db_driver.
func LoadConfig(role Role, path string) (Config, error) {
	if path == "" {
		path = os.Getenv(ConfigPathEnv)
	}
	file, err := readConfigFile(path)
	if err != nil {
		return Config{}, err
	}
	src := source{file: file}

	cfg := Config{
		Role:                 role,
		Env:                  src.getOrDefault("ENV", "dev"),
		LogLevel:             src.getOrDefault("LOG_LEVEL", "info"),
		LogFormat:            src.getOrDefault("LOG_FORMAT", "json"),
		Port:                 src.getIntOrDefault("PORT", defaultPorts[role]),
		DBDriver:             strings.ToLower(src.getOrDefault("DB_DRIVER", "sqlite")),
		DBDSN:                src.getOrDefault("DB_DSN", "quizdesk.db"),
		StoreTimeout:         src.getDurationOrDefault("STORE_TIMEOUT", store.DefaultTimeout),
		PepperFile:           src.getOrDefault("PEPPER_FILE", "pepper"),
		TokenTTL:             src.getDurationOrDefault("TOKEN_TTL", service.DefaultTokenTTL),
		HashConcurrency:      src.getIntOrDefault("HASH_CONCURRENCY", 8),
		AuthURL:              src.getOrDefault("AUTH_URL", "http://localhost:8003"),
		AuthTimeout:          src.getDurationOrDefault("AUTH_TIMEOUT", 3*time.Second),
		RedisAddr:            src.get("REDIS_ADDR"),
		RedisPassword:        src.get("REDIS_PASSWORD"),
		RedisDB:              src.getIntOrDefault("REDIS_DB", 0),
		AnswerCacheTTL:       src.getDurationOrDefault("ANSWER_CACHE_TTL", 24*time.Hour),
		HousekeepingInterval: src.getDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		ShutdownGracePeriod:  src.getDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", c.DBDriver))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT out of range: %d", c.Port))
	}
	if c.HashConcurrency < 1 {
		errs = append(errs, fmt.Errorf("HASH_CONCURRENCY must be at least 1"))
	}
	if c.TokenTTL < 0 {
		errs = append(errs, fmt.Errorf("TOKEN_TTL must not be negative"))
	}
	return errors.Join(errs...)
}

func readConfigFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if v == nil {
			continue
		}
		out[strings.ToUpper(k)] = fmt.Sprint(v)
	}
	return out, nil
}

// source resolves a key from the environment first, then the file.
type source struct {
	file map[string]string
}

func (s source) get(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return s.file[key]
}

func (s source) getOrDefault(key, defaultValue string) string {
	if value := s.get(key); value != "" {
		return value
	}
	return defaultValue
}

func (s source) getIntOrDefault(key string, defaultValue int) int {
	value := s.get(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func (s source) getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := s.get(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
