// Package janitor purges expired trash on a cron schedule.
package janitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophcloud/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"
)

var purged = promauto.NewCounter(prometheus.CounterOpts{
	Name: "gophcloud_janitor_purged_total",
	Help: "Trashed records purged by the janitor.",
})

// ErrSweepRunning is returned by Sweep when another sweep has not finished.
var ErrSweepRunning = errors.New("sweep already running")

// Purger purges the expired trash of one user.
type Purger interface {
	PurgeExpired(ctx context.Context, userID string, retention time.Duration) (int, error)
}

// Users lists the users whose trash is swept.
type Users func(ctx context.Context) ([]string, error)

type Janitor struct {
	purger    Purger
	users     Users
	retention time.Duration
	schedule  string
	log       logging.Logger

	mu       sync.Mutex
	sweeping bool
	cron     *cron.Cron
}

func New(purger Purger, users Users, retention time.Duration, schedule string, log logging.Logger) *Janitor {
	if log == nil {
		log = logging.Discard()
	}
	return &Janitor{
		purger:    purger,
		users:     users,
		retention: retention,
		schedule:  schedule,
		log:       log.With("job", "janitor"),
	}
}

func (j *Janitor) begin() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.sweeping {
		return false
	}
	j.sweeping = true
	return true
}

func (j *Janitor) end() {
	j.mu.Lock()
	j.sweeping = false
	j.mu.Unlock()
}

// Sweep purges expired trash for every user once and returns the number of
// purged records. A failure for one user is logged and does not stop the
// others.
func (j *Janitor) Sweep(ctx context.Context) (int, error) {
	if !j.begin() {
		return 0, ErrSweepRunning
	}
	defer j.end()

	users, err := j.users(ctx)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := j.purger.PurgeExpired(ctx, u, j.retention)
		total += n
		if err != nil {
			j.log.Error(ctx, "sweep failed", "user", u, "error", err)
			continue
		}
		if n > 0 {
			j.log.Info(ctx, "expired trash purged", "user", u, "count", n)
		}
	}
	purged.Add(float64(total))
	return total, nil
}

// Start schedules Sweep. A tick that fires while a sweep is still running
// is skipped.
func (j *Janitor) Start(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cron != nil {
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(j.schedule, func() {
		if _, err := j.Sweep(ctx); err != nil {
			if errors.Is(err, ErrSweepRunning) {
				j.log.Debug(ctx, "sweep skipped")
				return
			}
			j.log.Error(ctx, "sweep failed", "error", err)
		}
	})
	if err != nil {
		return err
	}
	c.Start()
	j.cron = c
	j.log.Info(ctx, "janitor started", "schedule", j.schedule, "retention", j.retention.String())
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (j *Janitor) Stop() {
	j.mu.Lock()
	c := j.cron
	j.cron = nil
	j.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
}
