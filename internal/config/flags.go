package config

import (
	"flag"

	"github.com/dmitrijs2005/gophcloud/internal/flagx"
)

// parseFlags overlays cfg with command-line flags.
//
//	-d string    local SQLite database path
//	-r string    remote metadata service URL (Postgres DSN)
//	-k string    remote access key (S3 access key id)
//	-s string    S3 secret key
//	-b string    S3 bucket
//	-g string    S3 region
//	-e string    S3 base endpoint
//	-timeout     per-call remote timeout (e.g. "5s")
//	-q int       storage quota in bytes
//	-retention   trash retention (e.g. "720h")
//	-j string    janitor cron schedule
//	-l string    log level (debug, info, warn, error)
//
// Arguments are filtered first so flags owned by other parts of the program
// (such as -c) do not make parsing fail. Parse errors panic.
func parseFlags(cfg *Config, args []string) {
	args = flagx.Filter(args, []string{"-d", "-r", "-k", "-s", "-b", "-g", "-e", "-timeout", "-q", "-retention", "-j", "-l"})

	fs := flag.NewFlagSet("gophcloud", flag.ContinueOnError)

	fs.StringVar(&cfg.LocalDatabasePath, "d", cfg.LocalDatabasePath, "local database path")
	fs.StringVar(&cfg.RemoteURL, "r", cfg.RemoteURL, "remote metadata service URL")
	fs.StringVar(&cfg.RemoteKey, "k", cfg.RemoteKey, "remote access key")
	fs.StringVar(&cfg.S3SecretKey, "s", cfg.S3SecretKey, "S3 secret key")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")
	fs.DurationVar(&cfg.RemoteTimeout, "timeout", cfg.RemoteTimeout, "remote call timeout")
	fs.Int64Var(&cfg.QuotaBytes, "q", cfg.QuotaBytes, "storage quota in bytes")
	fs.DurationVar(&cfg.TrashRetention, "retention", cfg.TrashRetention, "trash retention")
	fs.StringVar(&cfg.JanitorSchedule, "j", cfg.JanitorSchedule, "janitor cron schedule")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
