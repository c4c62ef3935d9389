package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ENV", "LOG_LEVEL", "LOG_FORMAT", "PORT", "DB_DRIVER", "DB_DSN", "STORE_TIMEOUT",
		"PEPPER_FILE", "TOKEN_TTL", "HASH_CONCURRENCY", "AUTH_URL", "AUTH_TIMEOUT",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "ANSWER_CACHE_TTL",
		"HOUSEKEEPING_INTERVAL", "SHUTDOWN_GRACE_PERIOD", ConfigPathEnv,
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quizdesk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	for role, port := range map[Role]int{RoleAuth: 8003, RoleQuiz: 8005, RoleUsers: 8004} {
		cfg, err := LoadConfig(role, "")
		require.NoError(t, err)
		require.Equal(t, port, cfg.Port, role)
		require.Equal(t, "sqlite", cfg.DBDriver)
		require.Equal(t, "quizdesk.db", cfg.DBDSN)
		require.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
		require.Equal(t, 8, cfg.HashConcurrency)
		require.Equal(t, "http://localhost:8003", cfg.AuthURL)
		require.Empty(t, cfg.RedisAddr)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
db_driver: postgres
db_dsn: postgres://quizdesk@localhost/quizdesk
port: 9000
token_ttl: 2h
redis_addr: localhost:6379
redis_db: 2
housekeeping_interval: 15
`)

	cfg, err := LoadConfig(RoleQuiz, path)
	require.NoError(t, err)
	require.Equal(t, "postgres", cfg.DBDriver)
	require.Equal(t, "postgres://quizdesk@localhost/quizdesk", cfg.DBDSN)
	require.Equal(t, 9000, cfg.Port)
	require.Equal(t, 2*time.Hour, cfg.TokenTTL)
	require.Equal(t, "localhost:6379", cfg.RedisAddr)
	require.Equal(t, 2, cfg.RedisDB)
	require.Equal(t, 15*time.Minute, cfg.HousekeepingInterval)

	t.Run("environment wins", func(t *testing.T) {
		t.Setenv("PORT", "9100")
		t.Setenv("TOKEN_TTL", "0")

		cfg, err := LoadConfig(RoleQuiz, path)
		require.NoError(t, err)
		require.Equal(t, 9100, cfg.Port)
		require.Zero(t, cfg.TokenTTL)
	})

	t.Run("path from environment", func(t *testing.T) {
		t.Setenv(ConfigPathEnv, path)

		cfg, err := LoadConfig(RoleUsers, "")
		require.NoError(t, err)
		require.Equal(t, "postgres", cfg.DBDriver)
	})
}

func TestLoadConfigErrors(t *testing.T) {
	clearEnv(t)

	_, err := LoadConfig(RoleAuth, filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = LoadConfig(RoleAuth, writeConfig(t, "db_driver: [unclosed"))
	require.Error(t, err)

	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("HASH_CONCURRENCY", "0")
	_, err = LoadConfig(RoleAuth, "")
	require.ErrorContains(t, err, "DB_DRIVER")
	require.ErrorContains(t, err, "HASH_CONCURRENCY")
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" Quiz ")
	require.NoError(t, err)
	require.Equal(t, RoleQuiz, r)

	_, err = ParseRole("admin")
	require.Error(t, err)
}
