// Package notification provides cross-platform desktop notifications.
// It uses the beeep library to send notifications on macOS, Linux, and Windows.
package notification

import (
	"sync"

	"github.com/gen2brain/beeep"

	"github.com/zhubert/chatstate/internal/logger"
)

// AppName is the title used for chatstate notifications.
const AppName = "chatstate"

// notifyFunc matches beeep.Notify.
type notifyFunc func(title, message string, icon any) error

var (
	mu     sync.Mutex
	notify notifyFunc = beeep.Notify
)

// SetNotifier replaces the function used to send notifications.
func SetNotifier(fn func(title, message string, icon any) error) {
	mu.Lock()
	defer mu.Unlock()
	notify = fn
}

// ResetNotifier restores beeep.Notify.
func ResetNotifier() {
	SetNotifier(beeep.Notify)
}

// Send sends a desktop notification with the given title and message.
// On macOS, it uses terminal-notifier or AppleScript.
// On Linux, it uses D-Bus or notify-send.
// On Windows, it uses the Windows Runtime COM API.
func Send(title, message string) error {
	mu.Lock()
	fn := notify
	mu.Unlock()

	log := logger.ComponentLogger("notification")
	log.Debug("sending notification", "title", title, "message", message)
	// Empty icon - beeep handles platform defaults
	err := fn(title, message, "")
	if err != nil {
		log.Warn("failed to send notification", "error", err)
	}
	return err
}

// ActDispatched announces that an action tag was set on the session.
func ActDispatched(act string) error {
	return Send(AppName, "action "+act+" dispatched")
}
