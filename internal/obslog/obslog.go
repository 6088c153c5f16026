// Package obslog holds the process-wide default logger. It exists only for
// process entry points (cmd/poolctl, a caller's own main) to configure that
// default once at startup. Core packages never read this global directly —
// they accept a *slog.Logger via a functional option and fall back to
// slog.Default() when the option is omitted, so the cache and pool never
// implicitly capture ambient state behind callers' backs.
package obslog

import (
	"log/slog"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	current = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
)

// SetLogger replaces the process-wide default logger. Call it once, early
// in main, before constructing any pool that omits its own WithLogger
// option. A nil logger is ignored.
func SetLogger(logger *slog.Logger) {
	if logger == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	current = logger
	slog.SetDefault(logger)
}

// Logger returns the current process-wide default logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}
