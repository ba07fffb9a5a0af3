package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// setupTestLogger creates a temp log file and initializes the logger with it.
func setupTestLogger(t *testing.T) string {
	t.Helper()
	Reset()

	logPath := filepath.Join(t.TempDir(), "test-debug.log")
	if err := Init(logPath); err != nil {
		t.Fatalf("Failed to init logger: %v", err)
	}
	t.Cleanup(Reset)

	return logPath
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	return string(content)
}

func TestInit_WritesBanner(t *testing.T) {
	logPath := setupTestLogger(t)

	if got := Path(); got != logPath {
		t.Errorf("Path() = %q, want %q", got, logPath)
	}
	if !strings.Contains(readLog(t, logPath), "Logger initialized") {
		t.Error("log file should contain the init banner")
	}
}

func TestInit_SecondCallIsNoop(t *testing.T) {
	logPath := setupTestLogger(t)

	other := filepath.Join(t.TempDir(), "other.log")
	if err := Init(other); err != nil {
		t.Fatalf("second Init returned error: %v", err)
	}
	if got := Path(); got != logPath {
		t.Errorf("Path() = %q after second Init, want %q", got, logPath)
	}
}

func TestInit_BadPath(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if err := Init(filepath.Join(t.TempDir(), "missing", "dir", "x.log")); err == nil {
		t.Error("Init should fail for a path in a missing directory")
	}
}

func TestLevelFiltering(t *testing.T) {
	logPath := setupTestLogger(t)

	log := ComponentLogger("test")
	log.Debug("debug-hidden")
	log.Info("info-visible")
	log.Warn("warn-visible")
	log.Error("error-visible")

	content := readLog(t, logPath)
	if strings.Contains(content, "debug-hidden") {
		t.Error("debug message should be filtered at info level")
	}
	for _, want := range []string{"info-visible", "warn-visible", "error-visible"} {
		if !strings.Contains(content, want) {
			t.Errorf("log should contain %q", want)
		}
	}
}

func TestSetDebug(t *testing.T) {
	logPath := setupTestLogger(t)
	log := ComponentLogger("test")

	SetDebug(true)
	log.Debug("now-visible")
	SetDebug(false)
	log.Debug("hidden-again")

	content := readLog(t, logPath)
	if !strings.Contains(content, "now-visible") {
		t.Error("debug message should be written after SetDebug(true)")
	}
	if strings.Contains(content, "hidden-again") {
		t.Error("debug message should be filtered after SetDebug(false)")
	}
}

func TestReset_RestoresInfoLevel(t *testing.T) {
	setupTestLogger(t)
	SetDebug(true)

	logPath := setupTestLogger(t)
	ComponentLogger("test").Debug("after-reset")

	if strings.Contains(readLog(t, logPath), "after-reset") {
		t.Error("Reset should return the level to info")
	}
}

func TestComponentLogger(t *testing.T) {
	logPath := setupTestLogger(t)

	ComponentLogger("kv").Info("opened", "backend", "file")

	content := readLog(t, logPath)
	if !strings.Contains(content, "component=kv") {
		t.Errorf("expected component attribute, got:\n%s", content)
	}
	if !strings.Contains(content, "backend=file") {
		t.Errorf("expected backend attribute, got:\n%s", content)
	}
}

func TestWithStore(t *testing.T) {
	logPath := setupTestLogger(t)

	WithStore("gptConfigStore").Warn("fell back to defaults")

	content := readLog(t, logPath)
	if !strings.Contains(content, "store=gptConfigStore") {
		t.Errorf("expected store attribute, got:\n%s", content)
	}
}

func TestConcurrentLogging(t *testing.T) {
	setupTestLogger(t)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(n int) {
			log := WithStore("gpts-use-list")
			for j := 0; j < 100; j++ {
				log.Info("concurrent write", "worker", n, "seq", j)
			}
			done <- true
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestClose_ThenLogDoesNotPanic(t *testing.T) {
	setupTestLogger(t)

	log := ComponentLogger("test")
	Close()
	log.Info("after close")
}

func TestClearLogs_ExtraPaths(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	dir := t.TempDir()
	extra := filepath.Join(dir, "custom.log")
	if err := os.WriteFile(extra, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	n, err := ClearLogs(extra, extra, filepath.Join(dir, "absent.log"))
	if err != nil {
		t.Fatalf("ClearLogs returned error: %v", err)
	}
	if n < 1 {
		t.Errorf("ClearLogs removed %d files, want at least 1", n)
	}
	if _, err := os.Stat(extra); !os.IsNotExist(err) {
		t.Error("extra log file should have been removed")
	}
}
