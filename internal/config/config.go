// Package config builds the runtime configuration of GophCloud from
// defaults, the environment (optionally seeded from a .env file), an optional
// JSON file and command-line flags, in that order of precedence.
package config

import (
	"os"
	"strings"
	"time"
)

// Config holds runtime settings.
//
// RemoteURL and RemoteKey are the two secrets that switch the remote tier on:
// RemoteURL is the Postgres DSN of the metadata service and RemoteKey is the
// access key of the S3-compatible object storage (S3SecretKey is its secret).
type Config struct {
	LocalDatabasePath string
	RemoteURL         string
	RemoteKey         string
	S3SecretKey       string
	S3Bucket          string
	S3Region          string
	S3BaseEndpoint    string
	RemoteTimeout     time.Duration
	QuotaBytes        int64
	TrashRetention    time.Duration
	JanitorSchedule   string
	LogLevel          string
}

// placeholders are values shipped in sample configs that must never enable
// the remote tier.
var placeholders = []string{"YOUR_PROJECT_ID", "YOUR_ANON_KEY", "YOUR_ACCESS_KEY", "changeme"}

// LoadDefaults populates Config with local-only development defaults.
func (c *Config) LoadDefaults() {
	c.LocalDatabasePath = "gophcloud.db"
	c.RemoteURL = ""
	c.RemoteKey = ""
	c.S3SecretKey = ""
	c.S3Bucket = "user-files"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.RemoteTimeout = 10 * time.Second
	c.QuotaBytes = 200 << 30
	c.TrashRetention = 30 * 24 * time.Hour
	c.JanitorSchedule = "@daily"
	c.LogLevel = "info"
}

// RemoteEnabled reports whether both remote secrets are present and are not
// placeholders. The answer is meant to be taken once at startup and handed
// to the storage constructors.
func (c *Config) RemoteEnabled() bool {
	return usable(c.RemoteURL) && usable(c.RemoteKey)
}

func usable(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	for _, p := range placeholders {
		if strings.Contains(v, p) {
			return false
		}
	}
	return true
}

// LoadConfig applies defaults, then the environment, then a JSON file named
// by -c/-config, then command-line flags. Later sources win.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
