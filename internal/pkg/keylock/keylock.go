// Package keylock provides mutual exclusion per string key.
//
// Holders of different keys never wait on each other. Entries are reference
// counted and dropped once the last holder releases, so the map only holds
// keys that are currently in use.
package keylock

import (
	"context"
	"sort"
	"sync"
)

// Locker hands out locks keyed by string
type Locker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

// entry is held by whoever has sent into sem
type entry struct {
	sem  chan struct{}
	refs int
}

// New creates an empty Locker
func New() *Locker {
	return &Locker{locks: make(map[string]*entry)}
}

// Lock acquires the locks for all keys and returns a function releasing them.
// Keys are deduplicated and taken in sorted order so two callers locking the
// same pair in opposite order cannot deadlock.
//
// If ctx ends while waiting, the keys already taken are released and the
// context error is returned.
func (l *Locker) Lock(ctx context.Context, keys ...string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ordered := normalize(keys)

	held := make([]*entry, 0, len(ordered))
	unwind := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i].sem
			l.release(ordered[i])
		}
	}

	for i, key := range ordered {
		e := l.acquire(key)
		select {
		case e.sem <- struct{}{}:
			held = append(held, e)
		case <-ctx.Done():
			l.release(ordered[i])
			unwind()
			return nil, ctx.Err()
		}
	}

	var once sync.Once
	return func() { once.Do(unwind) }, nil
}

// Len reports how many keys currently have holders or waiters
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

func (l *Locker) acquire(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.locks[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	return e
}

func (l *Locker) release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.locks[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}

func normalize(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
