package state

import (
	"errors"
	"sync"
	"time"

	"github.com/zhubert/chatstate/internal/kv"
)

// manualClock records scheduled callbacks so tests decide when they fire.
type manualClock struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	delay   time.Duration
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{delay: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// fire runs timer i's callback even if it was stopped, which is what happens
// when Stop loses the race with an already-running callback.
func (c *manualClock) fire(i int) {
	c.mu.Lock()
	t := c.timers[i]
	c.mu.Unlock()
	t.f()
}

func (c *manualClock) timer(i int) *manualTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timers[i]
}

var errDiskFull = errors.New("disk full")

// flakyStore fails writes while failWrites is set.
type flakyStore struct {
	*kv.MemoryStore
	failWrites bool
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: kv.NewMemoryStore()}
}

func (s *flakyStore) Set(key, value string) error {
	if s.failWrites {
		return errDiskFull
	}
	return s.MemoryStore.Set(key, value)
}

// brokenReadStore fails every read.
type brokenReadStore struct {
	*kv.MemoryStore
}

func (s brokenReadStore) Get(string) (string, bool, error) {
	return "", false, errors.New("io error")
}
