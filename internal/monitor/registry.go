package monitor

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Entry is one active monitoring activity.
type Entry struct {
	CallID    string
	UserName  string
	StartedAt time.Time

	cancel context.CancelFunc
}

// Registry holds the active entries, at most one per call id.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*Entry
}

func newRegistry() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// add reports false if the call id is already registered.
func (r *Registry) add(e *Entry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[e.CallID]; ok {
		return false
	}
	r.entries[e.CallID] = e
	return true
}

func (r *Registry) remove(callID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[callID]; ok {
		e.cancel()
		delete(r.entries, callID)
	}
}

// Active returns a snapshot ordered by start time.
func (r *Registry) Active() []Entry {
	r.mu.Lock()
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, Entry{CallID: e.CallID, UserName: e.UserName, StartedAt: e.StartedAt})
	}
	r.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
