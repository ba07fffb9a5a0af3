package state

import (
	"sync"
	"time"

	"github.com/zhubert/chatstate/internal/logger"
)

// DefaultActClearDelay is how long an action tag stays set before Session clears it.
const DefaultActClearDelay = 2 * time.Second

// Timer is the part of *time.Timer that Session needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d. time.AfterFunc satisfies it
// through a small adapter; tests substitute a manual clock.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Session holds transient UI state. It is not persisted.
type Session struct {
	mu        sync.RWMutex
	data      SessionData
	delay     time.Duration
	afterFunc AfterFunc
	pending   Timer
	gen       uint64 // bumped whenever a clear is scheduled; stale callbacks compare against it
	closed    bool
	watchers  watchers[SessionData]
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionClearDelay overrides DefaultActClearDelay.
func WithSessionClearDelay(d time.Duration) SessionOption {
	return func(s *Session) { s.delay = d }
}

// WithSessionAfterFunc replaces the timer primitive.
func WithSessionAfterFunc(f AfterFunc) SessionOption {
	return func(s *Session) { s.afterFunc = f }
}

// NewSession returns a Session holding the defaults.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		data: SessionData{
			ActData: map[string]any{},
			Session: map[string]any{},
		},
		delay:     DefaultActClearDelay,
		afterFunc: realAfterFunc,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns a copy of the current value.
func (s *Session) Get() SessionData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.clone()
}

// Set merges p into the current value. When p carries an action tag, a clear
// of Act and ActData is scheduled after the clear delay, replacing any clear
// still pending from an earlier action.
func (s *Session) Set(p SessionPatch) {
	s.mu.Lock()
	s.data = MergeSession(s.data, p)
	if p.Act != nil && !s.closed {
		s.scheduleClearLocked()
	}
	snapshot := s.data.clone()
	s.mu.Unlock()

	s.watchers.notify(snapshot)
}

// Dispatch sets an action tag and its payload.
func (s *Session) Dispatch(act string, data any) {
	s.Set(SessionPatch{Act: &act, ActData: data})
}

func (s *Session) scheduleClearLocked() {
	if s.pending != nil {
		s.pending.Stop()
	}
	s.gen++
	gen := s.gen
	act := s.data.Act
	s.pending = s.afterFunc(s.delay, func() { s.clearAct(gen) })

	logger.ComponentLogger("session").Debug("scheduled act clear", "act", act, "delay", s.delay)
}

func (s *Session) clearAct(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	s.data.Act = ""
	s.data.ActData = ""
	snapshot := s.data.clone()
	s.mu.Unlock()

	s.watchers.notify(snapshot)
}

// Pending reports whether a delayed clear is scheduled.
func (s *Session) Pending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending != nil
}

// ClearDelay returns the configured delay before an action tag is cleared.
func (s *Session) ClearDelay() time.Duration {
	return s.delay
}

// AModel returns session["amodel"] when it is a string.
func (s *Session) AModel() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data.Session["amodel"].(string)
	return v, ok
}

// Subscribe registers fn to be called with a copy of the value after every change.
func (s *Session) Subscribe(fn func(SessionData)) (cancel func()) {
	return s.watchers.add(fn)
}

// Close stops any pending clear. Later Set calls still merge but schedule nothing.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.closed = true
}
