// Package inflight tracks which entities of a collection have a mutating
// action in progress.
package inflight

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var ErrBusy = errors.New("another action is already in progress")

// BusyError names the entity that holds the lock when an acquire fails.
type BusyError struct {
	Collection string
	Requested  string
	Holder     string
}

func (e *BusyError) Error() string {
	if e.Holder == e.Requested {
		return fmt.Sprintf("%s %s: action already in progress", e.Collection, e.Requested)
	}
	return fmt.Sprintf("%s %s: waiting on action for %s", e.Collection, e.Requested, e.Holder)
}

func (e *BusyError) Unwrap() error { return ErrBusy }

// Tracker is a per-entity mutual exclusion map. An exclusive tracker allows
// at most one entity in flight for the whole collection.
type Tracker struct {
	collection string
	exclusive  bool

	mu     sync.Mutex
	active map[string]struct{}
}

func NewTracker(collection string, exclusive bool) *Tracker {
	return &Tracker{
		collection: collection,
		exclusive:  exclusive,
		active:     map[string]struct{}{},
	}
}

// Acquire marks id busy and returns the func that releases it. The release
// func is safe to call more than once.
func (t *Tracker) Acquire(id string) (func(), error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, busy := t.active[id]; busy {
		return nil, &BusyError{Collection: t.collection, Requested: id, Holder: id}
	}
	if t.exclusive && len(t.active) > 0 {
		return nil, &BusyError{Collection: t.collection, Requested: id, Holder: t.firstLocked()}
	}
	t.active[id] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.active, id)
			t.mu.Unlock()
		})
	}, nil
}

func (t *Tracker) IsBusy(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.active[id]
	return ok
}

// Locked reports whether actions on id are currently refused.
func (t *Tracker) Locked(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.active[id]; ok {
		return true
	}
	return t.exclusive && len(t.active) > 0
}

func (t *Tracker) Active() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.active))
	for id := range t.active {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (t *Tracker) firstLocked() string {
	ids := make([]string, 0, len(t.active))
	for id := range t.active {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids[0]
}
