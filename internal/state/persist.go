package state

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/zhubert/chatstate/internal/errors"
	"github.com/zhubert/chatstate/internal/kv"
	"github.com/zhubert/chatstate/internal/logger"
)

// loadRecord overlays the JSON object stored under key onto def, one field
// at a time. Keys present in storage win. A field whose value does not fit
// its type is skipped and logged; the rest still apply. A missing, empty,
// null or non-object value yields def. Failures are never returned.
func loadRecord[T any](store kv.Store, key string, def T) T {
	log := logger.WithStore(key)

	raw, ok, err := store.Get(key)
	if err != nil {
		log.Warn("read failed, using defaults", "error", err)
		return def
	}
	if !ok || raw == "" {
		return def
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		log.Warn("stored value is not a JSON object, using defaults", "error", err)
		return def
	}
	if fields == nil {
		return def
	}

	merged := def
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		one, err := json.Marshal(map[string]json.RawMessage{name: fields[name]})
		if err != nil {
			continue
		}
		next := merged
		if err := json.Unmarshal(one, &next); err != nil {
			log.Warn("ignoring stored field", "field", name, "error", err)
			continue
		}
		merged = next
	}
	log.Debug("loaded stored value", "fields", len(fields))
	return merged
}

// persistRecord writes v as JSON under key, replacing the prior value.
func persistRecord(store kv.Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.RecordEncodeFailed(key, err)
	}
	if err := store.Set(key, string(raw)); err != nil {
		return err
	}
	logger.WithStore(key).Debug("persisted", "bytes", len(raw))
	return nil
}
