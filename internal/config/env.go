package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvLocalDatabase   = "GOPHCLOUD_LOCAL_DB"
	EnvRemoteURL       = "GOPHCLOUD_REMOTE_URL"
	EnvRemoteKey       = "GOPHCLOUD_REMOTE_KEY"
	EnvS3SecretKey     = "GOPHCLOUD_S3_SECRET_KEY"
	EnvS3Bucket        = "GOPHCLOUD_S3_BUCKET"
	EnvS3Region        = "GOPHCLOUD_S3_REGION"
	EnvS3Endpoint      = "GOPHCLOUD_S3_ENDPOINT"
	EnvRemoteTimeout   = "GOPHCLOUD_REMOTE_TIMEOUT"
	EnvQuotaBytes      = "GOPHCLOUD_QUOTA_BYTES"
	EnvTrashRetention  = "GOPHCLOUD_TRASH_RETENTION"
	EnvJanitorSchedule = "GOPHCLOUD_JANITOR_SCHEDULE"
	EnvLogLevel        = "GOPHCLOUD_LOG_LEVEL"
)

// parseEnv overlays cfg with environment variables. A .env file in the
// working directory is loaded first when present; variables already set in
// the process environment are not overridden by it. Malformed numbers and
// durations are ignored and keep the previous value.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	setString(&cfg.LocalDatabasePath, EnvLocalDatabase)
	setString(&cfg.RemoteURL, EnvRemoteURL)
	setString(&cfg.RemoteKey, EnvRemoteKey)
	setString(&cfg.S3SecretKey, EnvS3SecretKey)
	setString(&cfg.S3Bucket, EnvS3Bucket)
	setString(&cfg.S3Region, EnvS3Region)
	setString(&cfg.S3BaseEndpoint, EnvS3Endpoint)
	setDuration(&cfg.RemoteTimeout, EnvRemoteTimeout)
	setDuration(&cfg.TrashRetention, EnvTrashRetention)
	setString(&cfg.JanitorSchedule, EnvJanitorSchedule)
	setString(&cfg.LogLevel, EnvLogLevel)

	if v, ok := os.LookupEnv(EnvQuotaBytes); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.QuotaBytes = n
		}
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
