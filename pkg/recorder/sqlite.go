package recorder

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// frameBatchSize is how many frames go into one INSERT
const frameBatchSize = 500

// SQLiteBackend stores telemetry through GORM in a SQLite file, or in a
// private in-memory database when the path is empty
type SQLiteBackend struct {
	path string
	db   *gorm.DB
}

// NewSQLiteBackend creates a backend for path. Call Init before use.
func NewSQLiteBackend(path string) *SQLiteBackend {
	return &SQLiteBackend{path: path}
}

// dsn returns the data source name. Each in-memory backend gets its own
// named database so that backends do not share tables.
func (b *SQLiteBackend) dsn() string {
	if b.path != "" {
		return b.path
	}
	return fmt.Sprintf("file:flyreborn-%s?mode=memory&cache=shared", uuid.NewString())
}

// Init opens the database and migrates the schema
func (b *SQLiteBackend) Init() error {
	db, err := gorm.Open(sqlite.Open(b.dsn()), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        frameBatchSize,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to open telemetry database: %w", err)
	}

	if b.path == "" {
		// An in-memory database lives as long as its last connection.
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to access sql interface: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = MEMORY;",
		"PRAGMA synchronous = OFF;",
	} {
		if err := db.Exec(pragma).Error; err != nil {
			return fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	if err := db.AutoMigrate(&Session{}, &Frame{}); err != nil {
		return fmt.Errorf("failed to migrate telemetry schema: %w", err)
	}

	b.db = db
	return nil
}

// Close closes the underlying connection pool
func (b *SQLiteBackend) Close() error {
	if b.db == nil {
		return nil
	}
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	b.db = nil
	return sqlDB.Close()
}

func (b *SQLiteBackend) ready() error {
	if b.db == nil {
		return errors.New("sqlite backend not initialized")
	}
	return nil
}

// StartSession implements Backend
func (b *SQLiteBackend) StartSession(s *Session) error {
	if err := b.ready(); err != nil {
		return err
	}
	if err := b.db.Create(s).Error; err != nil {
		return fmt.Errorf("failed to start session %s: %w", s.ID, err)
	}
	return nil
}

// EndSession implements Backend
func (b *SQLiteBackend) EndSession(id uuid.UUID, endedAt time.Time) error {
	if err := b.ready(); err != nil {
		return err
	}
	res := b.db.Model(&Session{}).Where("id = ?", id).Update("ended_at", endedAt)
	if res.Error != nil {
		return fmt.Errorf("failed to end session %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("end %s: %w", id, ErrSessionNotFound)
	}
	return nil
}

// RecordFrames implements Backend
func (b *SQLiteBackend) RecordFrames(frames []Frame) error {
	if err := b.ready(); err != nil {
		return err
	}
	if len(frames) == 0 {
		return nil
	}
	if err := b.db.CreateInBatches(frames, frameBatchSize).Error; err != nil {
		return fmt.Errorf("failed to record %d frames: %w", len(frames), err)
	}
	return nil
}

// Sessions implements Backend
func (b *SQLiteBackend) Sessions() ([]Session, error) {
	if err := b.ready(); err != nil {
		return nil, err
	}
	var sessions []Session
	if err := b.db.Order("started_at, pawn_id").Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// Frames implements Backend
func (b *SQLiteBackend) Frames(sessionID uuid.UUID) ([]Frame, error) {
	if err := b.ready(); err != nil {
		return nil, err
	}

	var count int64
	if err := b.db.Model(&Session{}).Where("id = ?", sessionID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to look up session %s: %w", sessionID, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("frames %s: %w", sessionID, ErrSessionNotFound)
	}

	var frames []Frame
	if err := b.db.Where("session_id = ?", sessionID).Order("tick, id").Find(&frames).Error; err != nil {
		return nil, fmt.Errorf("failed to load frames of %s: %w", sessionID, err)
	}
	return frames, nil
}
