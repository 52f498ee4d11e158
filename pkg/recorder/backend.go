package recorder

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/opd-ai/go-flyreborn/pkg/config"
)

// ErrSessionNotFound is returned for frames or endings of an unknown session
var ErrSessionNotFound = errors.New("session not found")

// Backend is the interface all telemetry stores must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Session management
	StartSession(s *Session) error
	EndSession(id uuid.UUID, endedAt time.Time) error

	// Frame recording
	RecordFrames(frames []Frame) error

	// Queries
	Sessions() ([]Session, error)
	Frames(sessionID uuid.UUID) ([]Frame, error)
}

// NewBackend creates a backend based on configuration. The "none" backend
// yields nil.
func NewBackend(cfg config.RecorderConfig) (Backend, error) {
	switch cfg.Backend {
	case config.RecorderNone, "":
		return nil, nil
	case config.RecorderMemory:
		return NewMemoryBackend(), nil
	case config.RecorderSQLite:
		return NewSQLiteBackend(cfg.Path), nil
	default:
		return nil, fmt.Errorf("unknown recorder backend: %s", cfg.Backend)
	}
}
