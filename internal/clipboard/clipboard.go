// Package clipboard copies text to and from the system clipboard.
package clipboard

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"

	"github.com/zhubert/chatstate/internal/logger"
)

// backend is the subset of golang.design/x/clipboard used here.
type backend struct {
	init  func() error
	write func([]byte)
	read  func() []byte
}

var systemBackend = backend{
	init:  clipboard.Init,
	write: func(b []byte) { clipboard.Write(clipboard.FmtText, b) },
	read:  func() []byte { return clipboard.Read(clipboard.FmtText) },
}

var (
	mu          sync.Mutex
	current     = systemBackend
	initialized bool
)

// Init initializes the clipboard. Must be called before other functions.
// This is safe to call multiple times.
func Init() error {
	mu.Lock()
	defer mu.Unlock()
	return initLocked()
}

func initLocked() error {
	if initialized {
		return nil
	}
	log := logger.ComponentLogger("clipboard")
	if err := current.init(); err != nil {
		log.Warn("failed to initialize", "error", err)
		return fmt.Errorf("failed to initialize clipboard: %w", err)
	}
	initialized = true
	log.Debug("initialized")
	return nil
}

// WriteText places text on the clipboard.
func WriteText(text string) error {
	mu.Lock()
	defer mu.Unlock()
	if err := initLocked(); err != nil {
		return err
	}
	current.write([]byte(text))
	logger.ComponentLogger("clipboard").Debug("wrote text", "bytes", len(text))
	return nil
}

// ReadText reads text from the clipboard. An empty clipboard yields "".
func ReadText() (string, error) {
	mu.Lock()
	defer mu.Unlock()
	if err := initLocked(); err != nil {
		return "", err
	}
	textBytes := current.read()
	if textBytes == nil {
		return "", nil
	}
	return string(textBytes), nil
}

// setBackend swaps the clipboard implementation and returns a restore func.
func setBackend(b backend) (restore func()) {
	mu.Lock()
	defer mu.Unlock()
	prev, prevInit := current, initialized
	current, initialized = b, false
	return func() {
		mu.Lock()
		defer mu.Unlock()
		current, initialized = prev, prevInit
	}
}
