package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every PASSVAULT_ env var that Load() reads.
var allConfigKeys = []string{
	"PASSVAULT_APPWRITE_ENDPOINT",
	"PASSVAULT_APPWRITE_PROJECT",
	"PASSVAULT_APPWRITE_DATABASE_ID",
	"PASSVAULT_APPWRITE_COLLECTION_ID",
	"PASSVAULT_LISTEN_ADDR",
	"PASSVAULT_DB_PATH",
	"PASSVAULT_SECRET_KEY",
	"PASSVAULT_SESSION_TTL",
	"PASSVAULT_JANITOR_INTERVAL",
	"PASSVAULT_REQUEST_TIMEOUT",
	"PASSVAULT_SECURE_COOKIES",
}

// isolateConfigEnv saves and unsets all PASSVAULT_ env vars so tests don't
// inherit values from the host environment (e.g. a .env loaded by a dev shell).
// t.Cleanup restores original values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

// setRequired sets the three Appwrite identifiers Load() insists on.
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("PASSVAULT_APPWRITE_PROJECT", "proj")
	t.Setenv("PASSVAULT_APPWRITE_DATABASE_ID", "db")
	t.Setenv("PASSVAULT_APPWRITE_COLLECTION_ID", "col")
}

func TestLoad_Success(t *testing.T) {
	isolateConfigEnv(t)
	setRequired(t)
	t.Setenv("PASSVAULT_APPWRITE_ENDPOINT", "https://appwrite.example.com/v1/")
	t.Setenv("PASSVAULT_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("PASSVAULT_DB_PATH", "/tmp/test.db")
	t.Setenv("PASSVAULT_SESSION_TTL", "2h")
	t.Setenv("PASSVAULT_JANITOR_INTERVAL", "1m")
	t.Setenv("PASSVAULT_REQUEST_TIMEOUT", "3s")
	t.Setenv("PASSVAULT_SECURE_COOKIES", "true")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "https://appwrite.example.com/v1", cfg.AppwriteEndpoint)
	assert.Equal(t, "proj", cfg.AppwriteProject)
	assert.Equal(t, "db", cfg.AppwriteDatabaseID)
	assert.Equal(t, "col", cfg.AppwriteCollection)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, time.Minute, cfg.JanitorInterval)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.SecureCookies)
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)
	setRequired(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "https://cloud.appwrite.io/v1", cfg.AppwriteEndpoint)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, "passvault.db", cfg.DBPath)
	assert.Equal(t, 168*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10*time.Minute, cfg.JanitorInterval)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.SecureCookies)
	assert.Nil(t, cfg.SecretKey)
}

func TestLoad_MissingRequired(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("PASSVAULT_APPWRITE_PROJECT", "proj")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PASSVAULT_APPWRITE_DATABASE_ID")
	assert.Contains(t, err.Error(), "PASSVAULT_APPWRITE_COLLECTION_ID")
	assert.NotContains(t, err.Error(), "PASSVAULT_APPWRITE_PROJECT")
}

func TestLoad_WhitespaceRequiredIsMissing(t *testing.T) {
	isolateConfigEnv(t)
	setRequired(t)
	t.Setenv("PASSVAULT_APPWRITE_PROJECT", "   ")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "PASSVAULT_APPWRITE_PROJECT")
}

func TestLoad_InvalidDurations(t *testing.T) {
	for _, key := range []string{"PASSVAULT_SESSION_TTL", "PASSVAULT_JANITOR_INTERVAL", "PASSVAULT_REQUEST_TIMEOUT"} {
		t.Run(key, func(t *testing.T) {
			isolateConfigEnv(t)
			setRequired(t)
			t.Setenv(key, "not-a-duration")

			cfg, err := Load()

			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_NonPositiveDuration(t *testing.T) {
	isolateConfigEnv(t)
	setRequired(t)
	t.Setenv("PASSVAULT_JANITOR_INTERVAL", "0s")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "PASSVAULT_JANITOR_INTERVAL")
}

func TestLoad_InvalidSecureCookies(t *testing.T) {
	isolateConfigEnv(t)
	setRequired(t)
	t.Setenv("PASSVAULT_SECURE_COOKIES", "maybe")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "PASSVAULT_SECURE_COOKIES")
}

func TestLoad_SecretKey_Valid(t *testing.T) {
	isolateConfigEnv(t)
	setRequired(t)
	// 64 hex chars = 32 bytes
	t.Setenv("PASSVAULT_SECRET_KEY", "0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Len(t, cfg.SecretKey, 32)
}

func TestLoad_SecretKey_TooShort(t *testing.T) {
	isolateConfigEnv(t)
	setRequired(t)
	t.Setenv("PASSVAULT_SECRET_KEY", "deadbeef")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PASSVAULT_SECRET_KEY")
}

func TestLoad_SecretKey_NotHex(t *testing.T) {
	isolateConfigEnv(t)
	setRequired(t)
	// 64 chars but not valid hex
	t.Setenv("PASSVAULT_SECRET_KEY", "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PASSVAULT_SECRET_KEY")
}
