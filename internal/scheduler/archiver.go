package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/MrSnakeDoc/tidymark/internal/logger"
)

const (
	// DefaultArchiveAfter is how old an active bookmark gets before it is archived.
	DefaultArchiveAfter = 180 * 24 * time.Hour
	// DefaultArchiveSchedule runs the archiver once a day at midnight.
	DefaultArchiveSchedule = "@daily"
)

// StaleArchiver archives bookmarks older than a cutoff.
type StaleArchiver interface {
	ArchiveStale(ctx context.Context, olderThan time.Duration) (int, error)
}

// Archiver periodically moves old bookmarks to the archive.
type Archiver struct {
	target    StaleArchiver
	logger    logger.Logger
	schedule  string
	olderThan time.Duration
	cron      *cron.Cron

	mu      sync.Mutex
	entryID cron.EntryID
	running bool
}

// NewArchiver creates an archiver. Empty schedule and zero olderThan select
// the defaults.
func NewArchiver(target StaleArchiver, log logger.Logger, schedule string, olderThan time.Duration) *Archiver {
	if schedule == "" {
		schedule = DefaultArchiveSchedule
	}
	if olderThan <= 0 {
		olderThan = DefaultArchiveAfter
	}
	return &Archiver{
		target:    target,
		logger:    log,
		schedule:  schedule,
		olderThan: olderThan,
		cron:      cron.New(),
	}
}

// Start registers the job and starts the cron runner. ctx bounds every run.
func (a *Archiver) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return nil
	}
	id, err := a.cron.AddFunc(a.schedule, func() {
		if _, err := a.Run(ctx); err != nil {
			a.logger.Error("failed to archive stale bookmarks", logger.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid archive schedule %q: %w", a.schedule, err)
	}
	a.entryID = id
	a.cron.Start()
	a.running = true
	return nil
}

// Stop halts the runner and waits for a job in progress.
func (a *Archiver) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return
	}
	<-a.cron.Stop().Done()
	a.cron.Remove(a.entryID)
	a.running = false
}

// Next returns the next scheduled run, zero when not started.
func (a *Archiver) Next() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return time.Time{}
	}
	return a.cron.Entry(a.entryID).Next
}

// Run archives stale bookmarks once.
func (a *Archiver) Run(ctx context.Context) (int, error) {
	n, err := a.target.ArchiveStale(ctx, a.olderThan)
	if err != nil {
		return n, err
	}
	if n > 0 {
		a.logger.Info("archived stale bookmarks",
			logger.Int("count", n),
			logger.Duration("older_than", a.olderThan))
	}
	return n, nil
}
