package kv

import (
	"encoding/json"
	"time"

	"github.com/zhubert/chatstate/internal/logger"
)

// envelope is the stored shape of a Structured value.
// Expire is unix milliseconds, or nil for no expiry.
type envelope struct {
	Data   json.RawMessage `json:"data"`
	Expire *int64          `json:"expire"`
}

// Structured stores JSON values in a Store wrapped in an expiry envelope:
//
//	{"data": <value>, "expire": <unix-ms or null>}
//
// Reads never fail on bad data. A malformed or expired entry is removed and
// reported as missing; data that does not fit the target is reported as
// missing and left in place.
type Structured struct {
	store  Store
	expire time.Duration
	now    func() time.Time
}

// StructuredOption configures a Structured accessor.
type StructuredOption func(*Structured)

// WithExpire sets the lifetime of values written from now on. Zero means no expiry.
func WithExpire(d time.Duration) StructuredOption {
	return func(s *Structured) { s.expire = d }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) StructuredOption {
	return func(s *Structured) { s.now = now }
}

// NewStructured wraps store. Values never expire unless WithExpire is given.
func NewStructured(store Store, opts ...StructuredOption) *Structured {
	s := &Structured{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Set encodes v and stores it under key.
func (s *Structured) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	env := envelope{Data: data}
	if s.expire > 0 {
		at := s.now().Add(s.expire).UnixMilli()
		env.Expire = &at
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return s.store.Set(key, string(raw))
}

// Get decodes the value under key into out. found is false when the key is
// absent, malformed, expired, holds null data or does not fit out. An entry
// stays valid through its expire millisecond. err is only returned for
// backend failures.
func (s *Structured) Get(key string, out any) (found bool, err error) {
	raw, ok, err := s.store.Get(key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	log := logger.WithStore(key)

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		log.Warn("dropping malformed structured value", "error", err)
		return false, s.store.Remove(key)
	}
	if env.Expire != nil && s.now().UnixMilli() > *env.Expire {
		log.Debug("structured value expired", "expire", *env.Expire)
		return false, s.store.Remove(key)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		log.Warn("structured value has unexpected shape", "error", err)
		return false, nil
	}
	return true, nil
}

// Remove deletes key.
func (s *Structured) Remove(key string) error {
	return s.store.Remove(key)
}
