package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophcloud/internal/flagx"
	"github.com/dmitrijs2005/gophcloud/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Pointer fields
// distinguish "absent" from "empty", so a file only overrides what it names.
type JsonConfig struct {
	LocalDatabasePath *string         `json:"local_database_path"`
	RemoteURL         *string         `json:"remote_url"`
	RemoteKey         *string         `json:"remote_key"`
	S3SecretKey       *string         `json:"s3_secret_key"`
	S3Bucket          *string         `json:"s3_bucket"`
	S3Region          *string         `json:"s3_region"`
	S3BaseEndpoint    *string         `json:"s3_base_endpoint"`
	RemoteTimeout     *timex.Duration `json:"remote_timeout"`
	QuotaBytes        *int64          `json:"quota_bytes"`
	TrashRetention    *timex.Duration `json:"trash_retention"`
	JanitorSchedule   *string         `json:"janitor_schedule"`
	LogLevel          *string         `json:"log_level"`
}

// parseJson overlays cfg with the JSON file named by -c/-config in args.
// Nothing happens when no file is named. Read and decode errors panic, the
// same way a bad flag does.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	copyString(&cfg.LocalDatabasePath, jc.LocalDatabasePath)
	copyString(&cfg.RemoteURL, jc.RemoteURL)
	copyString(&cfg.RemoteKey, jc.RemoteKey)
	copyString(&cfg.S3SecretKey, jc.S3SecretKey)
	copyString(&cfg.S3Bucket, jc.S3Bucket)
	copyString(&cfg.S3Region, jc.S3Region)
	copyString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	copyString(&cfg.JanitorSchedule, jc.JanitorSchedule)
	copyString(&cfg.LogLevel, jc.LogLevel)

	if jc.RemoteTimeout != nil {
		cfg.RemoteTimeout = jc.RemoteTimeout.Duration
	}
	if jc.TrashRetention != nil {
		cfg.TrashRetention = jc.TrashRetention.Duration
	}
	if jc.QuotaBytes != nil {
		cfg.QuotaBytes = *jc.QuotaBytes
	}
}

func copyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
