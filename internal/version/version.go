package version

import (
	"runtime"
	"time"
)

// Set through -ldflags at build time.
var (
	Version   = "dev"                           // ex: v0.3.0
	Commit    = "none"                          // ex: 1f2e3d4
	BuildDate = time.Now().Format(time.RFC3339) // ex: 2026-03-02T09:14:00Z
	GoVersion = runtime.Version()
)

// String renders the build information on one line.
func String() string {
	return Version + " (commit=" + Commit + ", built=" + BuildDate + ", go=" + GoVersion + ")"
}
