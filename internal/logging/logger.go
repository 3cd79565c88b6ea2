// Package logging sets up log/slog for the host daemon: one logger per
// module, text or JSON on a writer, and the systemd journal when present.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	moduleLoggers = make(map[string]*slog.Logger)
	levelVar      = &slog.LevelVar{}
	handler       slog.Handler
	mutex         sync.RWMutex

	// journalEnabled is swapped out by tests.
	journalEnabled = IsJournalAvailable
)

// Config mirrors the [logging] section.
type Config struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // text, json or journal
}

// Initialize installs the handler chain and makes it the slog default.
// A nil w logs to stdout. Loggers handed out earlier are rebuilt.
func Initialize(cfg Config, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	mutex.Lock()
	defer mutex.Unlock()

	lvl, ok := ParseLevel(cfg.Level)
	if !ok {
		lvl = slog.LevelInfo
	}
	levelVar.Set(lvl)
	handler = createHandler(cfg.Format, w, levelVar)
	for module := range moduleLoggers {
		moduleLoggers[module] = slog.New(handler).With("module", module)
	}
	slog.SetDefault(slog.New(handler))
}

// SetLevel changes the level of every logger at runtime.
func SetLevel(level string) bool {
	lvl, ok := ParseLevel(level)
	if ok {
		levelVar.Set(lvl)
	}
	return ok
}

// GetLogger returns the logger for module, creating it if needed.
func GetLogger(module string) *slog.Logger {
	mutex.RLock()
	if l, ok := moduleLoggers[module]; ok {
		mutex.RUnlock()
		return l
	}
	mutex.RUnlock()

	mutex.Lock()
	defer mutex.Unlock()
	if l, ok := moduleLoggers[module]; ok {
		return l
	}
	h := handler
	if h == nil {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: levelVar})
	}
	l := slog.New(h).With("module", module)
	moduleLoggers[module] = l
	return l
}

func createHandler(format string, w io.Writer, level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	switch format {
	case "journal":
		if journalEnabled() {
			return NewJournalHandler(level)
		}
		return slog.NewTextHandler(w, opts)
	case "json":
		return withJournal(slog.NewJSONHandler(w, opts), level)
	default:
		return withJournal(slog.NewTextHandler(w, opts), level)
	}
}

// withJournal tees h into the journal when running under systemd.
func withJournal(h slog.Handler, level slog.Leveler) slog.Handler {
	if !journalEnabled() {
		return h
	}
	return NewMultiHandler(h, NewJournalHandler(level))
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
