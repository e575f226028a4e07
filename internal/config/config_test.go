package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "gophcloud.db", c.LocalDatabasePath)
	assert.Empty(t, c.RemoteURL)
	assert.Empty(t, c.RemoteKey)
	assert.Equal(t, "user-files", c.S3Bucket)
	assert.Equal(t, "us-east-1", c.S3Region)
	assert.Equal(t, "http://127.0.0.1:9000/", c.S3BaseEndpoint)
	assert.Equal(t, 10*time.Second, c.RemoteTimeout)
	assert.Equal(t, int64(200<<30), c.QuotaBytes)
	assert.Equal(t, 720*time.Hour, c.TrashRetention)
	assert.Equal(t, "@daily", c.JanitorSchedule)
	assert.Equal(t, "info", c.LogLevel)
	assert.False(t, c.RemoteEnabled())
}

func TestRemoteEnabled(t *testing.T) {
	tests := []struct {
		name string
		url  string
		key  string
		want bool
	}{
		{name: "both set", url: "postgres://u:p@db:5432/cloud", key: "AKIA123", want: true},
		{name: "url missing", url: "", key: "AKIA123", want: false},
		{name: "key missing", url: "postgres://db/cloud", key: "", want: false},
		{name: "blank key", url: "postgres://db/cloud", key: "   ", want: false},
		{name: "placeholder url", url: "https://YOUR_PROJECT_ID.example.co", key: "AKIA123", want: false},
		{name: "placeholder key", url: "postgres://db/cloud", key: "YOUR_ANON_KEY", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Config{RemoteURL: tt.url, RemoteKey: tt.key}
			assert.Equal(t, tt.want, c.RemoteEnabled())
		})
	}
}

func TestLoad_Precedence(t *testing.T) {
	t.Setenv(EnvRemoteURL, "postgres://env/cloud")
	t.Setenv(EnvRemoteKey, "env-key")
	t.Setenv(EnvS3Bucket, "env-bucket")

	path := writeTempJSON(t, map[string]any{
		"s3_bucket": "json-bucket",
		"s3_region": "eu-west-1",
	})

	cfg := load([]string{"-c", path, "-g", "flag-region", "-d", "/tmp/flag.db"})
	require.NotNil(t, cfg)

	assert.Equal(t, "postgres://env/cloud", cfg.RemoteURL)
	assert.Equal(t, "env-key", cfg.RemoteKey)
	assert.Equal(t, "json-bucket", cfg.S3Bucket)
	assert.Equal(t, "flag-region", cfg.S3Region)
	assert.Equal(t, "/tmp/flag.db", cfg.LocalDatabasePath)
	assert.True(t, cfg.RemoteEnabled())
}
