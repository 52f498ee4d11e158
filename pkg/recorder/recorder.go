package recorder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/opd-ai/go-flyreborn/pkg/entity"
	"github.com/opd-ai/go-flyreborn/pkg/logging"
)

// DefaultBatchSize is how many frames are buffered before a write
const DefaultBatchSize = 64

// Recorder turns world telemetry into sessions and frames. Each pawn gets
// its own session the first time it is recorded.
type Recorder struct {
	backend Backend
	name    string
	tuning  any
	logger  *logging.Logger

	// BatchSize is the number of frames buffered before a write.
	BatchSize int

	mu       sync.Mutex
	sessions map[entity.ID]*Session
	pending  []Frame
	closed   bool
}

// New creates a recorder writing to backend. tuning is stored with every
// session.
func New(backend Backend, name string, tuning any) *Recorder {
	return &Recorder{
		backend:   backend,
		name:      name,
		tuning:    tuning,
		logger:    logging.Discard(),
		BatchSize: DefaultBatchSize,
		sessions:  make(map[entity.ID]*Session),
	}
}

// SetLogger sets the logger used for session lifecycle messages
func (r *Recorder) SetLogger(l *logging.Logger) {
	if l != nil {
		r.logger = l
	}
}

// Record buffers one telemetry sample
func (r *Recorder) Record(ctx context.Context, tick uint64, elapsed float64, t entity.Telemetry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return errors.New("recorder closed")
	}

	session, err := r.sessionLocked(ctx, t)
	if err != nil {
		return err
	}

	r.pending = append(r.pending, FromTelemetry(session.ID, tick, elapsed, t))
	if len(r.pending) >= r.BatchSize {
		return r.flushLocked()
	}
	return nil
}

// sessionLocked returns the pawn's session, starting one if needed
func (r *Recorder) sessionLocked(ctx context.Context, t entity.Telemetry) (*Session, error) {
	if s, ok := r.sessions[t.ID]; ok {
		return s, nil
	}

	s, err := NewSession(r.name, t.ID, t.Kind, r.tuning)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tuning: %w", err)
	}
	if err := r.backend.StartSession(s); err != nil {
		return nil, err
	}

	r.sessions[t.ID] = s
	r.logger.Info(ctx, "recording session started",
		"session_id", s.ID.String(), "pawn_id", s.PawnID, "kind", s.PawnKind)
	return s, nil
}

// Flush writes every buffered frame
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flushLocked()
}

func (r *Recorder) flushLocked() error {
	if len(r.pending) == 0 {
		return nil
	}
	if err := r.backend.RecordFrames(r.pending); err != nil {
		return err
	}
	r.pending = nil
	return nil
}

// Close flushes the buffer and ends every session. The backend is left
// open for queries.
func (r *Recorder) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	errs := []error{r.flushLocked()}
	now := time.Now().UTC()
	for _, s := range r.sessions {
		errs = append(errs, r.backend.EndSession(s.ID, now))
		r.logger.Info(ctx, "recording session ended", "session_id", s.ID.String(), "pawn_id", s.PawnID)
	}
	return errors.Join(errs...)
}

// Session returns the session recording a pawn
func (r *Recorder) Session(id entity.ID) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// Backend returns the store the recorder writes to
func (r *Recorder) Backend() Backend {
	return r.backend
}
