package order

import (
	"context"
	"sync"
	"time"

	"github.com/turtacn/titleorder/pkg/errors"
)

// Registry keeps the live sessions of a server process in memory.  Sessions
// idle for longer than the TTL are abandoned and dropped by Sweep.
type Registry struct {
	mu        sync.RWMutex
	sessions  map[string]*entry
	ttl       time.Duration
	transport Transport
	opts      []Option
	now       func() time.Time
}

type entry struct {
	o        *Orchestrator
	lastSeen time.Time
}

// NewRegistry returns a Registry whose sessions share transport and opts.
func NewRegistry(transport Transport, ttl time.Duration, opts ...Option) *Registry {
	r := &Registry{
		sessions:  make(map[string]*entry),
		ttl:       ttl,
		transport: transport,
		opts:      opts,
		now:       time.Now,
	}
	probe := &Orchestrator{now: time.Now}
	for _, opt := range opts {
		opt(probe)
	}
	r.now = probe.now
	return r
}

// Create starts a new session.
func (r *Registry) Create() *Orchestrator {
	o := New(r.transport, r.opts...)
	r.mu.Lock()
	r.sessions[o.ID()] = &entry{o: o, lastSeen: r.now()}
	r.mu.Unlock()
	return o
}

// Get returns the session with id and refreshes its idle timer.
func (r *Registry) Get(id string) (*Orchestrator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, errors.NotFound("session not found").WithDetail(id)
	}
	e.lastSeen = r.now()
	return e.o, nil
}

// Delete abandons and removes the session with id.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		e.o.Abandon()
	}
	return ok
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were dropped.  A non-positive TTL disables expiry.
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.ttl)
	var expired []*Orchestrator
	r.mu.Lock()
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, e.o)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()
	for _, o := range expired {
		o.Abandon()
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
