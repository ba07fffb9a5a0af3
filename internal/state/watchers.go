package state

import "sync"

// watchers is a list of change callbacks. Callbacks run synchronously on the
// goroutine that made the change, after the container's lock is released.
type watchers[T any] struct {
	mu     sync.Mutex
	nextID int
	fns    []watcher[T]
}

type watcher[T any] struct {
	id int
	fn func(T)
}

func (w *watchers[T]) add(fn func(T)) (cancel func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.nextID++
	id := w.nextID
	w.fns = append(w.fns, watcher[T]{id: id, fn: fn})

	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		for i, existing := range w.fns {
			if existing.id == id {
				w.fns = append(w.fns[:i:i], w.fns[i+1:]...)
				return
			}
		}
	}
}

func (w *watchers[T]) notify(v T) {
	w.mu.Lock()
	fns := make([]watcher[T], len(w.fns))
	copy(fns, w.fns)
	w.mu.Unlock()

	for _, entry := range fns {
		entry.fn(v)
	}
}
