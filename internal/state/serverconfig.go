package state

import (
	"strings"
	"sync"

	"github.com/zhubert/chatstate/internal/kv"
)

// ServerConfig holds backend credentials, persisted under ServerConfigKey.
type ServerConfig struct {
	mu       sync.RWMutex
	store    kv.Store
	data     ServerConfigData
	watchers watchers[ServerConfigData]
}

// ServerConfigDefaults returns every string empty and the CDN toggle off.
func ServerConfigDefaults() ServerConfigData {
	return ServerConfigData{}
}

// OpenServerConfig builds the initial value: defaults with any stored value laid over them.
func OpenServerConfig(store kv.Store) *ServerConfig {
	return &ServerConfig{
		store: store,
		data:  loadRecord(store, ServerConfigKey, ServerConfigDefaults()),
	}
}

// Get returns the current value.
func (c *ServerConfig) Get() ServerConfigData {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data
}

// Set merges p and writes the full result to storage.
func (c *ServerConfig) Set(p ServerConfigPatch) error {
	c.mu.Lock()
	return c.commitLocked(MergeServerConfig(c.data, p))
}

// Reset replaces the value with ServerConfigDefaults and persists it.
func (c *ServerConfig) Reset() error {
	c.mu.Lock()
	return c.commitLocked(ServerConfigDefaults())
}

// commitLocked must be entered with c.mu held and releases it.
func (c *ServerConfig) commitLocked(next ServerConfigData) error {
	if err := persistRecord(c.store, ServerConfigKey, next); err != nil {
		c.mu.Unlock()
		return err
	}
	c.data = next
	c.mu.Unlock()

	c.watchers.notify(next)
	return nil
}

// Redacted returns the value with secrets masked for display.
func (c *ServerConfig) Redacted() ServerConfigData {
	d := c.Get()
	d.APIKey = MaskSecret(d.APIKey)
	d.MJAPISecret = MaskSecret(d.MJAPISecret)
	return d
}

// Subscribe registers fn to be called with the value after every change.
func (c *ServerConfig) Subscribe(fn func(ServerConfigData)) (cancel func()) {
	return c.watchers.add(fn)
}

// MaskSecret keeps a short prefix and suffix of long secrets and hides the rest.
func MaskSecret(s string) string {
	switch {
	case s == "":
		return ""
	case len(s) <= 8:
		return strings.Repeat("*", len(s))
	default:
		return s[:3] + strings.Repeat("*", len(s)-7) + s[len(s)-4:]
	}
}
