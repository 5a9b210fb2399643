package models

import (
	"errors"
	"sync"
	"sync/atomic"
)

// EntityID identifies an actor in the simulation. Zero is never issued.
type EntityID uint64

const NoEntity EntityID = 0

var (
	ErrEntityExists   = errors.New("entity already registered")
	ErrEntityNotFound = errors.New("entity not found")
	ErrNilActor       = errors.New("actor is nil")
)

// Registry resolves actor handles. Handles may outlive their actors, so
// holders must check IsValid (or the ok result of Lookup) on every use.
type Registry interface {
	IsValid(EntityID) bool
	Lookup(EntityID) (any, bool)
}

var _ Registry = (*MemoryRegistry)(nil)

// MemoryRegistry is a map backed Registry.
type MemoryRegistry struct {
	mu     sync.RWMutex
	actors map[EntityID]any
	nextID atomic.Uint64 // skips ids taken through Register
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{actors: make(map[EntityID]any)}
}

// Spawn registers actor under a fresh id.
func (r *MemoryRegistry) Spawn(actor any) (EntityID, error) {
	if actor == nil {
		return NoEntity, ErrNilActor
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	id := EntityID(r.nextID.Add(1))
	for _, taken := r.actors[id]; taken; _, taken = r.actors[id] {
		id = EntityID(r.nextID.Add(1))
	}
	r.actors[id] = actor
	return id, nil
}

// Register binds actor to an id chosen by the caller, e.g. a physics body id.
func (r *MemoryRegistry) Register(id EntityID, actor any) error {
	if actor == nil {
		return ErrNilActor
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.actors[id]; ok {
		return ErrEntityExists
	}
	r.actors[id] = actor
	return nil
}

// Destroy drops the actor. Outstanding handles become invalid.
func (r *MemoryRegistry) Destroy(id EntityID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.actors[id]; !ok {
		return ErrEntityNotFound
	}
	delete(r.actors, id)
	return nil
}

func (r *MemoryRegistry) IsValid(id EntityID) bool {
	r.mu.RLock()
	_, ok := r.actors[id]
	r.mu.RUnlock()
	return ok
}

func (r *MemoryRegistry) Lookup(id EntityID) (any, bool) {
	r.mu.RLock()
	actor, ok := r.actors[id]
	r.mu.RUnlock()
	return actor, ok
}

func (r *MemoryRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.actors)
}
