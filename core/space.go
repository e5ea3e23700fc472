package core

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Space is the live registry of tracked objects. Insertion order is
// preserved so that pairwise enumeration within a tick is deterministic.
//
// Space is single-writer: only the progression loop mutates kinematic
// state. External mutations (orders, spawns) must be applied between
// ticks or serialized behind the same lock the loop holds per tick.
type Space struct {
	mu      sync.RWMutex
	objects []Object
	byID    map[uuid.UUID]Object
}

// NewSpace constructs an empty registry.
func NewSpace() *Space {
	return &Space{byID: make(map[uuid.UUID]Object)}
}

// Add registers an object. Private (detached) bodies and duplicate IDs
// are rejected.
func (s *Space) Add(obj Object) error {
	b := obj.Body()
	if b.Private() {
		return fmt.Errorf("space: object %s is private and cannot join the registry", b.ID())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[b.ID()]; exists {
		return fmt.Errorf("space: object %s already registered", b.ID())
	}
	s.byID[b.ID()] = obj
	s.objects = append(s.objects, obj)
	return nil
}

// Remove deletes an object from the registry. It reports whether the
// object was present. A snapshot taken before removal is unaffected.
func (s *Space) Remove(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	for i, obj := range s.objects {
		if obj.Body().ID() == id {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the registered object with the given ID.
func (s *Space) Get(id uuid.UUID) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.byID[id]
	return obj, ok
}

// Snapshot returns a copy of the member list in insertion order. The
// progression loop scans a snapshot so that removals mid-tick never
// corrupt the enumeration in flight.
func (s *Space) Snapshot() []Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Object, len(s.objects))
	copy(out, s.objects)
	return out
}

// Len returns the number of live objects.
func (s *Space) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// DomainCounts returns the number of live objects per domain, for
// metrics gauges.
func (s *Space) DomainCounts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int)
	for _, obj := range s.objects {
		counts[obj.Body().Domain]++
	}
	return counts
}

// PruneDestroyed removes every object marked destroyed and returns the
// removed objects. Called by the progression loop at tick boundaries.
func (s *Space) PruneDestroyed() []Object {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []Object
	kept := s.objects[:0]
	for _, obj := range s.objects {
		if obj.Body().Destroyed() {
			delete(s.byID, obj.Body().ID())
			removed = append(removed, obj)
			continue
		}
		kept = append(kept, obj)
	}
	s.objects = kept
	return removed
}
