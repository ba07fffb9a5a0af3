// Package logger writes structured logs to a file so terminal output stays
// clean. Callers get a *slog.Logger tagged with a component or storage key.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// DefaultLogPath is the log file used when Init is never called.
const DefaultLogPath = "/tmp/chatstate-debug.log"

var (
	mu       sync.Mutex
	once     sync.Once
	level    = new(slog.LevelVar)
	base     *slog.Logger
	logFile  *os.File
	logPath  string
	initDone bool
)

// Init opens path for appending and installs it as the log destination.
// It must run before the first log call; later calls are no-ops.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if initDone {
		return nil
	}
	f, err := openLog(path)
	if err != nil {
		return err
	}
	install(path, f)
	return nil
}

func openLog(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return f, nil
}

// install must be called with mu held.
func install(path string, f *os.File) {
	logPath = path
	logFile = f
	base = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	initDone = true
	base.Info("Logger initialized", "path", path)
}

// ensureInit falls back to DefaultLogPath. mu must be held.
func ensureInit() {
	if initDone {
		return
	}
	once.Do(func() {
		f, err := openLog(DefaultLogPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			return
		}
		install(DefaultLogPath, f)
	})
}

// SetDebug switches between debug and info level.
func SetDebug(enabled bool) {
	if enabled {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}
}

// Path returns the file the logger writes to, or "" before initialization.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

func with(attr slog.Attr) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	ensureInit()
	if base == nil {
		return slog.Default()
	}
	return base.With(attr)
}

// ComponentLogger returns a logger tagged with component.
//
//	log := logger.ComponentLogger("kv")
//	log.Debug("opened store", "backend", "sqlite", "path", path)
func ComponentLogger(component string) *slog.Logger {
	return with(slog.String("component", component))
}

// WithStore returns a logger tagged with a storage key.
// Each persisted container logs through one of these.
func WithStore(key string) *slog.Logger {
	return with(slog.String("store", key))
}

// Close closes the log file. Loggers handed out earlier write nowhere after this.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

// Reset closes the log file and forgets all state so Init can run again.
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	once = sync.Once{}
	level.Set(slog.LevelInfo)
	base = nil
	logPath = ""
	initDone = false
}

// ClearLogs removes /tmp/chatstate-*.log plus any extra paths, such as a
// configured log_file, and returns how many files were deleted.
func ClearLogs(extra ...string) (int, error) {
	candidates, err := filepath.Glob("/tmp/chatstate-*.log")
	if err != nil {
		return 0, err
	}
	candidates = append(candidates, extra...)

	count := 0
	seen := make(map[string]bool, len(candidates))
	for _, p := range candidates {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		if err := os.Remove(p); err == nil {
			count++
		} else if !os.IsNotExist(err) {
			return count, err
		}
	}
	return count, nil
}
