package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophcloud/internal/config"
	"github.com/dmitrijs2005/gophcloud/internal/janitor"
	"github.com/dmitrijs2005/gophcloud/internal/local"
	"github.com/dmitrijs2005/gophcloud/internal/logging"
	"github.com/dmitrijs2005/gophcloud/internal/remote"
	"github.com/dmitrijs2005/gophcloud/internal/storage"
	"github.com/dmitrijs2005/gophcloud/internal/vault"
	"github.com/google/uuid"
)

type Mode string

const (
	ModeLocal  Mode = "local"
	ModeHybrid Mode = "hybrid"
)

type App struct {
	cfg     *config.Config
	log     logging.Logger
	store   *local.Store
	catalog *storage.Catalog
	vault   *vault.Service
	janitor *janitor.Janitor
	closers []func() error

	Mode Mode
	// mu guards user, which the janitor reads from its own goroutine.
	mu    sync.Mutex
	user  string
	cwd   *string
	in    io.Reader
	out   io.Writer
	now   func() time.Time
	newID func() string
}

// NewApp opens the local store and, when the configuration enables it, the
// remote tier. An unusable local store is an error. A remote tier that cannot
// be reached at startup is logged and left out for the rest of the session.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Discard()
	}

	store := local.NewStore(cfg.LocalDatabasePath)
	if err := store.Run(ctx, func(context.Context, *sql.DB) error { return nil }); err != nil {
		return nil, err
	}

	a := &App{
		cfg:     cfg,
		log:     log,
		store:   store,
		closers: []func() error{store.Close},
		Mode:    ModeLocal,
		in:      os.Stdin,
		out:     os.Stdout,
		now:     time.Now,
		newID:   uuid.NewString,
	}

	var (
		remoteBlobs   storage.BlobBackend
		remoteCatalog storage.CatalogBackend
	)
	if cfg.RemoteEnabled() {
		db, err := remote.OpenPostgres(ctx, cfg.RemoteURL)
		if err != nil {
			log.Warn(ctx, "remote catalog unavailable, running local only", "error", err)
		} else {
			a.closers = append(a.closers, db.Close)
			remoteCatalog = remote.NewPostgresCatalog(db, cfg.RemoteTimeout)
		}

		client, err := remote.NewS3Client(ctx, remote.S3Config{
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			AccessKey:    cfg.RemoteKey,
			SecretKey:    cfg.S3SecretKey,
			Bucket:       cfg.S3Bucket,
			Timeout:      cfg.RemoteTimeout,
		})
		if err != nil {
			log.Warn(ctx, "remote blob store unavailable, running local only", "error", err)
		} else {
			remoteBlobs = remote.NewS3BlobStore(client, cfg.S3Bucket, cfg.RemoteTimeout)
		}
	}
	if remoteCatalog != nil || remoteBlobs != nil {
		a.Mode = ModeHybrid
	}
	log.Info(ctx, "storage ready", "local", store.Path(), "mode", string(a.Mode))

	a.wire(remoteBlobs, remoteCatalog, local.NewBlobRepository(store), local.NewCatalogRepository(store))
	return a, nil
}

// wire builds the storage, vault and janitor layers over the given tiers.
// A nil remote tier keeps that store local only.
func (a *App) wire(remoteBlobs storage.BlobBackend, remoteCatalog storage.CatalogBackend, localBlobs storage.BlobBackend, localCatalog storage.CatalogBackend) {
	blobs := storage.NewBlobStore(remoteBlobs, localBlobs, remoteBlobs != nil, a.log)
	a.catalog = storage.NewCatalog(remoteCatalog, localCatalog, remoteCatalog != nil, a.log)
	a.vault = vault.NewService(a.catalog, blobs, a.cfg.QuotaBytes, a.log, vault.WithClock(a.now), vault.WithIDs(a.newID))
	a.janitor = janitor.New(a.vault, a.sweepUsers, a.cfg.TrashRetention, a.cfg.JanitorSchedule, a.log)
}

func (a *App) sweepUsers(context.Context) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.user == "" {
		return nil, nil
	}
	return []string{a.user}, nil
}

// setUser switches the session to email; "" logs out.
func (a *App) setUser(email string) {
	a.mu.Lock()
	a.user = email
	a.cwd = nil
	a.mu.Unlock()
}

func (a *App) isLoggedIn() bool {
	return a.user != ""
}

func (a *App) status() string {
	s := string(a.Mode)
	if a.user != "" {
		s = a.user + " " + s
	}
	return "(" + s + ")"
}

// Close stops the janitor and releases every handle.
func (a *App) Close() error {
	a.janitor.Stop()
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Run starts the janitor and the REPL on stdin. It returns when the user
// exits or stdin is closed.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	if err := a.janitor.Start(ctx); err != nil {
		a.log.Error(ctx, "janitor not started", "schedule", a.cfg.JanitorSchedule, "error", err)
	}

	printlnFn("Welcome to GophCloud CLI (type 'help' for commands)")
	runREPL(ctx, a, a.status, bufio.NewScanner(a.in))
	return nil
}

// words splits args back into free text.
func words(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
