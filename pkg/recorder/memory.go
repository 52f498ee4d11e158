package recorder

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryBackend keeps sessions and frames in process memory
type MemoryBackend struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	frames   map[uuid.UUID][]Frame
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		sessions: make(map[uuid.UUID]*Session),
		frames:   make(map[uuid.UUID][]Frame),
	}
}

// Init implements Backend
func (b *MemoryBackend) Init() error { return nil }

// Close implements Backend
func (b *MemoryBackend) Close() error { return nil }

// StartSession implements Backend
func (b *MemoryBackend) StartSession(s *Session) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.sessions[s.ID]; exists {
		return fmt.Errorf("session %s already started", s.ID)
	}
	copied := *s
	b.sessions[s.ID] = &copied
	return nil
}

// EndSession implements Backend
func (b *MemoryBackend) EndSession(id uuid.UUID, endedAt time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.sessions[id]
	if !ok {
		return fmt.Errorf("end %s: %w", id, ErrSessionNotFound)
	}
	s.EndedAt = &endedAt
	return nil
}

// RecordFrames implements Backend. Frames of unknown sessions are rejected
// as a whole.
func (b *MemoryBackend) RecordFrames(frames []Frame) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, f := range frames {
		if _, ok := b.sessions[f.SessionID]; !ok {
			return fmt.Errorf("record frame: %s: %w", f.SessionID, ErrSessionNotFound)
		}
	}
	for _, f := range frames {
		b.frames[f.SessionID] = append(b.frames[f.SessionID], f)
	}
	return nil
}

// Sessions implements Backend. Sessions are ordered by start time.
func (b *MemoryBackend) Sessions() ([]Session, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Session, 0, len(b.sessions))
	for _, s := range b.sessions {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].PawnID < out[j].PawnID
		}
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out, nil
}

// Frames implements Backend. Frames are ordered by tick.
func (b *MemoryBackend) Frames(sessionID uuid.UUID) ([]Frame, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if _, ok := b.sessions[sessionID]; !ok {
		return nil, fmt.Errorf("frames %s: %w", sessionID, ErrSessionNotFound)
	}
	out := append([]Frame(nil), b.frames[sessionID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Tick < out[j].Tick })
	return out, nil
}
