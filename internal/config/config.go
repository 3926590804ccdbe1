// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	AppwriteEndpoint   string
	AppwriteProject    string
	AppwriteDatabaseID string
	AppwriteCollection string

	ListenAddr      string
	DBPath          string
	SecretKey       []byte // 32 bytes, or nil when an ephemeral key should be used
	SessionTTL      time.Duration
	JanitorInterval time.Duration
	RequestTimeout  time.Duration
	SecureCookies   bool
}

// Load reads configuration from environment variables and returns a validated Config.
//
// Required: PASSVAULT_APPWRITE_PROJECT, PASSVAULT_APPWRITE_DATABASE_ID,
// PASSVAULT_APPWRITE_COLLECTION_ID.
// Optional variables with defaults: PASSVAULT_APPWRITE_ENDPOINT
// (https://cloud.appwrite.io/v1), PASSVAULT_LISTEN_ADDR (127.0.0.1:8080),
// PASSVAULT_DB_PATH (passvault.db), PASSVAULT_SESSION_TTL (168h),
// PASSVAULT_JANITOR_INTERVAL (10m), PASSVAULT_REQUEST_TIMEOUT (15s),
// PASSVAULT_SECURE_COOKIES (false). PASSVAULT_SECRET_KEY is 64 hex characters;
// if absent, browser sessions do not survive a restart.
func Load() (*Config, error) {
	cfg := &Config{
		AppwriteEndpoint: "https://cloud.appwrite.io/v1",
		ListenAddr:       "127.0.0.1:8080",
		DBPath:           "passvault.db",
		SessionTTL:       7 * 24 * time.Hour,
		JanitorInterval:  10 * time.Minute,
		RequestTimeout:   15 * time.Second,
	}

	var missing []string
	required := []struct {
		key string
		dst *string
	}{
		{"PASSVAULT_APPWRITE_PROJECT", &cfg.AppwriteProject},
		{"PASSVAULT_APPWRITE_DATABASE_ID", &cfg.AppwriteDatabaseID},
		{"PASSVAULT_APPWRITE_COLLECTION_ID", &cfg.AppwriteCollection},
	}
	for _, r := range required {
		*r.dst = strings.TrimSpace(os.Getenv(r.key))
		if *r.dst == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if v, ok := os.LookupEnv("PASSVAULT_APPWRITE_ENDPOINT"); ok && v != "" {
		cfg.AppwriteEndpoint = strings.TrimRight(v, "/")
	}
	if v, ok := os.LookupEnv("PASSVAULT_LISTEN_ADDR"); ok {
		cfg.ListenAddr = v
	}
	if v, ok := os.LookupEnv("PASSVAULT_DB_PATH"); ok {
		cfg.DBPath = v
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"PASSVAULT_SESSION_TTL", &cfg.SessionTTL},
		{"PASSVAULT_JANITOR_INTERVAL", &cfg.JanitorInterval},
		{"PASSVAULT_REQUEST_TIMEOUT", &cfg.RequestTimeout},
	}
	for _, d := range durations {
		v, ok := os.LookupEnv(d.key)
		if !ok {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%s has invalid duration %q: %w", d.key, v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("%s must be positive, got %s", d.key, parsed)
		}
		*d.dst = parsed
	}

	if v, ok := os.LookupEnv("PASSVAULT_SECURE_COOKIES"); ok && v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("PASSVAULT_SECURE_COOKIES has invalid boolean %q: %w", v, err)
		}
		cfg.SecureCookies = secure
	}

	if v, ok := os.LookupEnv("PASSVAULT_SECRET_KEY"); ok && v != "" {
		key, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("PASSVAULT_SECRET_KEY is not valid hex: %w", err)
		}
		if len(key) != 32 {
			return nil, errors.New("PASSVAULT_SECRET_KEY must be 64 hex characters (32 bytes)")
		}
		cfg.SecretKey = key
	}

	return cfg, nil
}
