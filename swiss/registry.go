/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Registry holds independent sessions, e.g. one per chat channel or per
// list being ranked. Sessions never share state, so different sessions may
// be driven concurrently.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	cfg      Config
	opts     []Option
}

func NewRegistry(cfg Config, opts ...Option) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		opts:     opts,
	}
}

// Create starts a new session under a fresh random id.
func (r *Registry) Create(seeds []Seed) (*Session, error) {
	s, err := NewSession(uuid.NewString(), seeds, r.cfg, r.opts...)
	if err != nil {
		return nil, err
	}
	if err := r.Add(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Restore rebuilds a session from a snapshot and registers it.
func (r *Registry) Restore(snap *Snapshot) (*Session, error) {
	s, err := Restore(snap, r.cfg, r.opts...)
	if err != nil {
		return nil, err
	}
	if err := r.Add(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *Registry) Add(s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.ID()]; ok {
		return fmt.Errorf("swiss.registry: session %v already registered", s.ID())
	}
	r.sessions[s.ID()] = s
	return nil
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownSession, id)
	}
	return s, nil
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// IDs returns the registered session ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
