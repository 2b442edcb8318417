// Package cache stores translated plans keyed by snapshot digest.
//
// The encoding is deterministic given a snapshot, so a control loop that
// replans over an unchanged snapshot can reuse the previous episode's
// actions instead of re-invoking the external planner. Two backends are
// provided: an in-process map for single-process loops and a Redis store
// for sharing plans across processes.
package cache

import (
	"context"
	"errors"
	"sync"

	"github.com/gridway-ai/plankit/plan"
)

// Common errors returned by cache operations.
var (
	// ErrNotFound is returned when no plan is cached under the key.
	ErrNotFound = errors.New("cache: plan not found")

	// ErrInvalidKey is returned when a key is empty.
	ErrInvalidKey = errors.New("cache: invalid key")
)

// Cache stores translated action sequences under snapshot digests.
type Cache interface {
	// Get retrieves the actions cached under key.
	// Returns ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]plan.Action, error)

	// Put stores the actions under key, replacing any previous entry.
	Put(ctx context.Context, key string, actions []plan.Action) error

	// Close releases backend resources.
	Close() error
}

// Memory is a mutex-guarded in-process Cache.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]plan.Action
}

// NewMemory creates an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]plan.Action)}
}

// Get implements Cache.
func (m *Memory) Get(_ context.Context, key string) ([]plan.Action, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	actions, ok := m.entries[key]
	if !ok {
		return nil, ErrNotFound
	}

	// Hand out a copy so callers cannot mutate the cached plan.
	out := make([]plan.Action, len(actions))
	copy(out, actions)
	return out, nil
}

// Put implements Cache.
func (m *Memory) Put(_ context.Context, key string, actions []plan.Action) error {
	if key == "" {
		return ErrInvalidKey
	}

	stored := make([]plan.Action, len(actions))
	copy(stored, actions)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = stored
	return nil
}

// Close implements Cache. It discards all entries.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string][]plan.Action)
	return nil
}
