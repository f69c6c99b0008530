package deps

import (
	"time"

	"github.com/MrSnakeDoc/tidymark/internal/logger"
	"github.com/MrSnakeDoc/tidymark/internal/organizer"
)

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	TimeNow       func() time.Time   // for testing, defaults to time.Now
	AllowedHosts  []string           // Host headers allowed to access the API
	AllowedCIDRS  []string           // IPs allowed to access healthz/readyz/reload
	TrustProxy    bool               // true if running behind a trusted reverse proxy (e.g., cloudflared)
	MaxBodyBytes  int64              // request body limit, 0 means 10 MiB
	Organizer     *organizer.Service // bookmarks, categories, suggestions
	StoreBackend  string             // "memory" | "redis" | "sqlite"
	GeneratorMode string             // "gemini" | "keyword"
	ImportFile    string             // YAML source watched by the importer (empty if disabled)
	ImportTrigger chan struct{}      // Channel to trigger a manual import (nil if import disabled)
	NextArchive   func() time.Time   // next scheduled stale-archive run (nil if auto-archive disabled)
}

// Now returns d.TimeNow() or time.Now().
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
