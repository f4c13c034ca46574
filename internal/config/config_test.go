package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"ENV", "HTTP_PORT", "DB_DSN", "STORAGE", "JWT_SECRET", "TIMEZONE",
		"UPLOAD_DIR", "UPLOAD_MAX_MB", "MEETING_BASE_URL", "ALLOWED_ORIGINS",
		"HOUSEKEEPING_INTERVAL", "REDIS_URL", "TELEGRAM_TOKEN",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DSN", "postgres://localhost/nurse")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, int64(50), cfg.UploadMaxMB)
	assert.Equal(t, 15*time.Minute, cfg.HousekeepingInterval)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, time.UTC, cfg.Location())
	assert.False(t, cfg.IsProduction())
}

func TestFromEnv_RequiresDSNForPostgres(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")

	_, err := FromEnv()
	assert.ErrorContains(t, err, "DB_DSN")

	t.Setenv("STORAGE", "memory")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage)
}

func TestFromEnv_RequiresJWTSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE", "memory")

	_, err := FromEnv()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestFromEnv_ParsesLists(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE", "memory")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("HOUSEKEEPING_INTERVAL", "1h")
	t.Setenv("TIMEZONE", "Europe/Moscow")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, time.Hour, cfg.HousekeepingInterval)
	assert.Equal(t, "Europe/Moscow", cfg.Location().String())
}

func TestFromEnv_RejectsBadValues(t *testing.T) {
	cases := map[string][2]string{
		"upload size": {"UPLOAD_MAX_MB", "zero"},
		"interval":    {"HOUSEKEEPING_INTERVAL", "-5m"},
		"timezone":    {"TIMEZONE", "Mars/Olympus"},
		"storage":     {"STORAGE", "mongo"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("STORAGE", "memory")
			t.Setenv("JWT_SECRET", "secret")
			t.Setenv(kv[0], kv[1])

			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
