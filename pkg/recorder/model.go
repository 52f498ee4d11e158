// Package recorder stores flight telemetry so that tuning runs can be
// compared after the fact.
package recorder

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/opd-ai/go-flyreborn/pkg/entity"
)

// Session is one pawn's recorded flight
type Session struct {
	ID        uuid.UUID      `json:"id" gorm:"type:text;primaryKey"`
	Name      string         `json:"name" gorm:"size:64"`
	PawnID    uint64         `json:"pawnId"`
	PawnKind  string         `json:"pawnKind" gorm:"size:16;index"`
	StartedAt time.Time      `json:"startedAt"`
	EndedAt   *time.Time     `json:"endedAt,omitempty"`
	Tuning    datatypes.JSON `json:"tuning"`
}

// NewSession creates a session with a fresh ID. tuning is stored as JSON;
// nil stores nothing.
func NewSession(name string, pawnID entity.ID, kind entity.PawnKind, tuning any) (*Session, error) {
	s := &Session{
		ID:        uuid.New(),
		Name:      name,
		PawnID:    uint64(pawnID),
		PawnKind:  string(kind),
		StartedAt: time.Now().UTC(),
	}
	if tuning != nil {
		raw, err := json.Marshal(tuning)
		if err != nil {
			return nil, err
		}
		s.Tuning = datatypes.JSON(raw)
	}
	return s, nil
}

// Frame is one telemetry sample
type Frame struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	SessionID uuid.UUID `json:"sessionId" gorm:"type:text;index:idx_session_tick"`
	Tick      uint64    `json:"tick" gorm:"index:idx_session_tick"`
	Elapsed   float64   `json:"elapsed"`

	X, Y, Z          float64 `json:"-"`
	Pitch, Yaw, Roll float64 `json:"-"`
	VX, VY, VZ       float64 `json:"-"`

	ForwardSpeed   float64 `json:"forwardSpeed"`
	Lift           float64 `json:"lift"`
	AirControl     float64 `json:"airControl"`
	ControlYaw     float64 `json:"controlYaw"`
	ControlPitch   float64 `json:"controlPitch"`
	ControlRoll    float64 `json:"controlRoll"`
	AngleOffTarget float64 `json:"angleOffTarget"`
}

// FromTelemetry converts a pawn sample into a frame of session
func FromTelemetry(sessionID uuid.UUID, tick uint64, elapsed float64, t entity.Telemetry) Frame {
	return Frame{
		SessionID:      sessionID,
		Tick:           tick,
		Elapsed:        elapsed,
		X:              t.Location.X(),
		Y:              t.Location.Y(),
		Z:              t.Location.Z(),
		Pitch:          t.Rotation.Pitch,
		Yaw:            t.Rotation.Yaw,
		Roll:           t.Rotation.Roll,
		VX:             t.Velocity.X(),
		VY:             t.Velocity.Y(),
		VZ:             t.Velocity.Z(),
		ForwardSpeed:   t.ForwardSpeed,
		Lift:           t.Lift,
		AirControl:     t.AirControl,
		ControlYaw:     t.Controls.Yaw,
		ControlPitch:   t.Controls.Pitch,
		ControlRoll:    t.Controls.Roll,
		AngleOffTarget: t.AngleOffTarget,
	}
}

// Altitude returns the frame's height above the world origin
func (f Frame) Altitude() float64 {
	return f.Z
}
