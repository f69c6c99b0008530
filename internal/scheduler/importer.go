package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/tidymark/internal/domain"
	"github.com/MrSnakeDoc/tidymark/internal/logger"
	"github.com/MrSnakeDoc/tidymark/internal/sources/yamlimport"
)

// DefaultImportInterval is the pause between two imports of the file.
const DefaultImportInterval = 24 * time.Hour

// Ingester adds the bookmarks it has not seen yet.
type Ingester interface {
	AddNew(ctx context.Context, bookmarks []domain.Bookmark, hints map[string]string) ([]domain.Bookmark, error)
}

// Importer periodically imports a Homepage-style bookmarks.yaml. Bookmarks
// already stored are left alone; new ones are categorized, using their
// group name as a hint.
type Importer struct {
	path          string
	target        Ingester
	logger        logger.Logger
	interval      time.Duration
	now           func() time.Time
	manualTrigger <-chan struct{}
	stopCh        chan struct{}
	stopOnce      sync.Once
}

// NewImporter creates an importer. manualTrigger may be nil.
func NewImporter(
	path string,
	target Ingester,
	log logger.Logger,
	interval time.Duration,
	manualTrigger <-chan struct{},
) *Importer {
	if interval <= 0 {
		interval = DefaultImportInterval
	}
	return &Importer{
		path:          path,
		target:        target,
		logger:        log,
		interval:      interval,
		now:           time.Now,
		manualTrigger: manualTrigger,
		stopCh:        make(chan struct{}),
	}
}

// Start imports once, then keeps importing on the interval and on manual
// triggers until Stop or ctx cancellation.
func (im *Importer) Start(ctx context.Context) error {
	if _, err := im.Import(ctx); err != nil {
		return fmt.Errorf("initial bookmark import failed: %w", err)
	}

	ticker := time.NewTicker(im.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				im.importLogged(ctx)
			case <-im.manualTrigger:
				im.logger.Info("manual bookmark import triggered")
				im.importLogged(ctx)
			case <-im.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// Stop ends the background loop. It is safe to call more than once.
func (im *Importer) Stop() {
	im.stopOnce.Do(func() { close(im.stopCh) })
}

func (im *Importer) importLogged(ctx context.Context) {
	if _, err := im.Import(ctx); err != nil {
		im.logger.Error("failed to import bookmarks", logger.Error(err))
	}
}

// Import reads the file and hands its bookmarks to the target. It returns
// the number of bookmarks added.
func (im *Importer) Import(ctx context.Context) (int, error) {
	file, err := yamlimport.Load(im.path)
	if err != nil {
		return 0, err
	}
	items, err := yamlimport.Map(file, im.now())
	if err != nil {
		return 0, fmt.Errorf("failed to map bookmarks: %w", err)
	}

	bookmarks, groups := yamlimport.Bookmarks(items)
	added, err := im.target.AddNew(ctx, bookmarks, groups)
	if err != nil {
		return 0, fmt.Errorf("failed to store bookmarks: %w", err)
	}

	im.logger.Info("imported bookmarks file",
		logger.String("file", im.path),
		logger.Int("found", len(bookmarks)),
		logger.Int("added", len(added)))
	return len(added), nil
}
