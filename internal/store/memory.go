// internal/store/memory.go
//
// In-memory implementation of the Store interface for puzzle sessions.
//
// Characteristics:
//   - Stores *puzzle.Session objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Update runs the caller's mutation under the write lock, so the engine
//     (which is single-threaded) never sees two requests at once.
//   - State is lost when the process restarts; puzzle state is never persisted.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/edgepuzzle/internal/puzzle"
)

// ErrNotFound is returned for unknown session ids.
var ErrNotFound = errors.New("session not found")

// Store defines the interface for live puzzle sessions.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, s *puzzle.Session) error

	// Get retrieves a session by ID.
	Get(ctx context.Context, id string) (*puzzle.Session, error)

	// Update runs fn against the session while holding exclusive access.
	Update(ctx context.Context, id string, fn func(*puzzle.Session) error) error

	// Delete drops a session; deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// Len reports the number of live sessions.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex               // guards sessions
	sessions map[string]*puzzle.Session // keyed by Session.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*puzzle.Session)}
}

func (m *memory) Save(ctx context.Context, s *puzzle.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*puzzle.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Update(ctx context.Context, id string, fn func(*puzzle.Session) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	return fn(s)
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
