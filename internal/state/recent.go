package state

import (
	"strings"
	"sync"

	"github.com/zhubert/chatstate/internal/errors"
	"github.com/zhubert/chatstate/internal/kv"
	"github.com/zhubert/chatstate/internal/logger"
)

// RecentItems is the most-recently-used persona list, newest first,
// persisted under RecentItemsKey through a kv.Structured accessor.
type RecentItems struct {
	mu       sync.RWMutex
	ss       *kv.Structured
	items    []Persona
	watchers watchers[[]Persona]
}

// OpenRecentItems loads the stored list as-is. A missing or unusable value
// starts an empty list.
func OpenRecentItems(ss *kv.Structured) *RecentItems {
	var items []Persona
	found, err := ss.Get(RecentItemsKey, &items)
	if err != nil {
		logger.WithStore(RecentItemsKey).Warn("read failed, starting empty", "error", err)
	}
	if !found || items == nil {
		items = []Persona{}
	}
	return &RecentItems{ss: ss, items: items}
}

// Items returns a copy of the list, newest first.
func (r *RecentItems) Items() []Persona {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return clonePersonas(r.items)
}

// Len returns the number of entries.
func (r *RecentItems) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Find returns the entry with the given gid.
func (r *RecentItems) Find(gid string) (Persona, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.items {
		if p.GID == gid {
			return p.Clone(), true
		}
	}
	return Persona{}, false
}

// Insert moves p to the front, dropping any entry with the same gid, and
// persists the list. It returns r so calls can be chained.
func (r *RecentItems) Insert(p Persona) (*RecentItems, error) {
	if strings.TrimSpace(p.GID) == "" {
		return r, errors.InvalidRecord("persona gid is empty")
	}

	r.mu.Lock()
	next := InsertPersona(r.items, p)
	if err := r.ss.Set(RecentItemsKey, next); err != nil {
		r.mu.Unlock()
		return r, err
	}
	r.items = next
	snapshot := clonePersonas(next)
	r.mu.Unlock()

	logger.WithStore(RecentItemsKey).Debug("inserted persona", "gid", p.GID, "len", len(snapshot))
	r.watchers.notify(snapshot)
	return r, nil
}

// Clear empties the list and removes it from storage.
func (r *RecentItems) Clear() error {
	r.mu.Lock()
	if err := r.ss.Remove(RecentItemsKey); err != nil {
		r.mu.Unlock()
		return err
	}
	r.items = []Persona{}
	r.mu.Unlock()

	logger.WithStore(RecentItemsKey).Debug("cleared")
	r.watchers.notify([]Persona{})
	return nil
}

// Subscribe registers fn to be called with a copy of the list after every change.
func (r *RecentItems) Subscribe(fn func([]Persona)) (cancel func()) {
	return r.watchers.add(fn)
}

func clonePersonas(list []Persona) []Persona {
	out := make([]Persona, len(list))
	for i, p := range list {
		out[i] = p.Clone()
	}
	return out
}
