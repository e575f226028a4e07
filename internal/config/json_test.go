package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"local_database_path": "vault.db",
		"remote_url":          "postgres://db/cloud",
		"remote_key":          "AKIA",
		"s3_secret_key":       "secret",
		"s3_bucket":           "bucket",
		"s3_region":           "region",
		"s3_base_endpoint":    "http://endpoint",
		"remote_timeout":      "2s",
		"quota_bytes":         1024,
		"trash_retention":     "24h",
		"janitor_schedule":    "@every 1h",
		"log_level":           "warn",
	})

	t.Run("loads every field", func(t *testing.T) {
		cfg := &Config{}
		parseJson(cfg, []string{"-config", path})

		assert.Equal(t, "vault.db", cfg.LocalDatabasePath)
		assert.Equal(t, "postgres://db/cloud", cfg.RemoteURL)
		assert.Equal(t, "AKIA", cfg.RemoteKey)
		assert.Equal(t, "secret", cfg.S3SecretKey)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "region", cfg.S3Region)
		assert.Equal(t, "http://endpoint", cfg.S3BaseEndpoint)
		assert.Equal(t, 2*time.Second, cfg.RemoteTimeout)
		assert.Equal(t, int64(1024), cfg.QuotaBytes)
		assert.Equal(t, 24*time.Hour, cfg.TrashRetention)
		assert.Equal(t, "@every 1h", cfg.JanitorSchedule)
		assert.Equal(t, "warn", cfg.LogLevel)
	})

	t.Run("absent fields keep previous values", func(t *testing.T) {
		partial := writeTempJSON(t, map[string]any{"s3_bucket": "only-bucket"})

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg, []string{"-c", partial})

		assert.Equal(t, "only-bucket", cfg.S3Bucket)
		assert.Equal(t, "gophcloud.db", cfg.LocalDatabasePath)
		assert.Equal(t, 720*time.Hour, cfg.TrashRetention)
	})

	t.Run("no config flag leaves config untouched", func(t *testing.T) {
		cfg := &Config{S3Bucket: "keep"}
		parseJson(cfg, []string{"-d", "x.db"})
		assert.Equal(t, "keep", cfg.S3Bucket)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ not json`), 0o600))

		require.Panics(t, func() { parseJson(&Config{}, []string{"-c", bad}) })
	})

	t.Run("missing file panics", func(t *testing.T) {
		require.Panics(t, func() { parseJson(&Config{}, []string{"-c", "/does/not/exist.json"}) })
	})
}
