// pkg/engine/world.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-flyreborn/pkg/config"
	"github.com/opd-ai/go-flyreborn/pkg/entity"
	"github.com/opd-ai/go-flyreborn/pkg/event"
	"github.com/opd-ai/go-flyreborn/pkg/input"
	"github.com/opd-ai/go-flyreborn/pkg/logging"
	"github.com/opd-ai/go-flyreborn/pkg/physics"
)

// ErrPawnNotFound is returned when an ID does not name a live pawn.
var ErrPawnNotFound = errors.New("pawn not found")

// Recorder receives telemetry samples from the world
type Recorder interface {
	Record(ctx context.Context, tick uint64, elapsed float64, t entity.Telemetry) error
}

// World owns the pawns, their rigid bodies and the simulation clock
type World struct {
	Config      *config.FlightConfig
	Pawns       map[entity.ID]entity.Pawn
	Bodies      map[entity.ID]*physics.Body
	Inputs      map[entity.ID]*input.Component
	Ground      *physics.Ground
	EntityLock  sync.RWMutex
	Running     bool
	TimeStep    float64 // Seconds per tick
	CurrentTick uint64
	ElapsedTime float64 // simulated seconds
	LastUpdate  time.Time
	EventBus    *event.Bus
	Logger      *logging.Logger

	// Recorder, when set, receives telemetry every RecordEvery ticks.
	Recorder    Recorder
	RecordEvery int

	nextID     entity.ID
	stalled    map[entity.ID]bool
	atMaxSpeed map[entity.ID]bool
	grounded   map[entity.ID]bool
	pending    []event.Event
}

// NewWorld creates an empty world with the specified configuration
func NewWorld(cfg *config.FlightConfig) *World {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	w := &World{
		Config:      cfg,
		Pawns:       make(map[entity.ID]entity.Pawn),
		Bodies:      make(map[entity.ID]*physics.Body),
		Inputs:      make(map[entity.ID]*input.Component),
		TimeStep:    cfg.TimeStep(),
		LastUpdate:  time.Now(),
		EventBus:    event.NewEventBus(),
		Logger:      logging.Discard(),
		RecordEvery: cfg.Recorder.RecordEvery,
		stalled:     make(map[entity.ID]bool),
		atMaxSpeed:  make(map[entity.ID]bool),
		grounded:    make(map[entity.ID]bool),
	}

	if cfg.Simulation.GroundEnabled {
		w.Ground = &physics.Ground{Height: cfg.Simulation.GroundHeight}
	}

	return w
}

// Start begins the simulation clock
func (w *World) Start() {
	w.EntityLock.Lock()
	w.Running = true
	w.LastUpdate = time.Now()
	w.EntityLock.Unlock()

	w.EventBus.Publish(&event.BaseEvent{
		EventType: event.SimulationStarted,
		Source:    w,
	})
}

// Stop halts the simulation clock
func (w *World) Stop() {
	w.EntityLock.Lock()
	w.Running = false
	w.EntityLock.Unlock()

	w.EventBus.Publish(&event.BaseEvent{
		EventType: event.SimulationStopped,
		Source:    w,
	})
}

// IsRunning reports whether Start has been called without a matching Stop.
func (w *World) IsRunning() bool {
	w.EntityLock.RLock()
	defer w.EntityLock.RUnlock()
	return w.Running
}

// Update advances the world by the wall-clock time since the last update
func (w *World) Update() {
	w.Step(w.calculateDeltaTime())
}

// calculateDeltaTime calculates the time since the last update and caps it.
func (w *World) calculateDeltaTime() float64 {
	w.EntityLock.Lock()
	defer w.EntityLock.Unlock()

	now := time.Now()
	deltaTime := now.Sub(w.LastUpdate).Seconds()
	w.LastUpdate = now

	// Cap delta time to prevent physics issues
	maxDelta := w.Config.Simulation.MaxDeltaTime
	if maxDelta <= 0 {
		maxDelta = 0.1
	}
	if deltaTime > maxDelta {
		deltaTime = maxDelta
	}
	return deltaTime
}

// Step advances the world by exactly deltaTime seconds. Pawns tick in ID
// order so that runs are reproducible.
func (w *World) Step(deltaTime float64) {
	if deltaTime <= 0 {
		return
	}

	w.EntityLock.Lock()
	w.stepLocked(deltaTime)
	events := w.pending
	w.pending = nil
	w.EntityLock.Unlock()

	// Handlers may call back into the world.
	for _, e := range events {
		w.EventBus.Publish(e)
	}
}

func (w *World) stepLocked(deltaTime float64) {
	ids := w.sortedIDs()

	for _, id := range ids {
		w.Pawns[id].Tick(deltaTime)
	}

	for _, id := range ids {
		body := w.Bodies[id]
		body.Step(deltaTime)
		w.resolveGround(id, body)
	}

	w.CurrentTick++
	w.ElapsedTime += deltaTime

	for _, id := range ids {
		w.checkSpeedEvents(w.Pawns[id])
	}

	w.record(ids)
}

// resolveGround keeps the body above the ground plane.
func (w *World) resolveGround(id entity.ID, body *physics.Body) {
	if w.Ground == nil {
		return
	}

	contact := w.Ground.Resolve(body, w.Config.Simulation.PawnRadius)
	if contact && !w.grounded[id] {
		w.pending = append(w.pending, event.NewSpeedEvent(
			event.GroundContact, w, uint64(id), body.Speed(), body.Transform().Location.Z(), w.CurrentTick,
		))
	}
	w.grounded[id] = contact
}

// checkSpeedEvents queues glider stall, recovery and speed limit events on
// the tick the threshold is crossed.
func (w *World) checkSpeedEvents(p entity.Pawn) {
	if p.Kind() != entity.KindGlider {
		return
	}

	id := p.GetID()
	t := p.Telemetry()

	switch {
	case t.ForwardSpeed <= 0 && !w.stalled[id]:
		w.stalled[id] = true
		w.queueSpeedEvent(event.GliderStalled, t)
		w.Logger.Debug(context.Background(), "glider stalled", "pawn_id", uint64(id), "tick", w.CurrentTick)
	case t.ForwardSpeed > 0 && w.stalled[id]:
		w.stalled[id] = false
		w.queueSpeedEvent(event.GliderRecovered, t)
		w.Logger.Debug(context.Background(), "glider recovered", "pawn_id", uint64(id), "tick", w.CurrentTick)
	}

	atMax := t.ForwardSpeed >= w.Config.Glider.MaximumSpeed
	if atMax && !w.atMaxSpeed[id] {
		w.queueSpeedEvent(event.SpeedLimitReached, t)
	}
	w.atMaxSpeed[id] = atMax
}

func (w *World) queueSpeedEvent(eventType event.Type, t entity.Telemetry) {
	w.pending = append(w.pending, event.NewSpeedEvent(
		eventType, w, uint64(t.ID), t.ForwardSpeed, t.Altitude(), w.CurrentTick,
	))
}

// record hands telemetry to the recorder every RecordEvery ticks.
func (w *World) record(ids []entity.ID) {
	if w.Recorder == nil || w.RecordEvery <= 0 || w.CurrentTick%uint64(w.RecordEvery) != 0 {
		return
	}

	ctx := context.Background()
	for _, id := range ids {
		if err := w.Recorder.Record(ctx, w.CurrentTick, w.ElapsedTime, w.Pawns[id].Telemetry()); err != nil {
			w.Logger.Warn(ctx, "failed to record telemetry", "pawn_id", uint64(id), "error", err.Error())
		}
	}
}

// Run steps the world at its tick rate until ctx is cancelled
func (w *World) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Duration(w.TimeStep * float64(time.Second)))
	defer ticker.Stop()

	w.Start()
	defer w.Stop()

	w.Logger.Info(ctx, "simulation running", "tick_rate", w.Config.Simulation.TickRate)

	for {
		select {
		case <-ctx.Done():
			w.Logger.Info(ctx, "simulation stopped", "ticks", w.Tick())
			return ctx.Err()
		case <-ticker.C:
			w.Update()
		}
	}
}

// Spawn creates a pawn of the given kind with its own body and input
// component and starts it
func (w *World) Spawn(kind entity.PawnKind, location mgl64.Vec3, rotation physics.Rotator) (entity.Pawn, error) {
	w.EntityLock.Lock()

	w.nextID++
	id := w.nextID
	body := physics.NewBody(w.Config.BodyConfig(), physics.NewTransform(location, rotation))

	var pawn entity.Pawn
	switch kind {
	case entity.KindFlying:
		pawn = entity.NewFlyingPawn(id, body, w.Config.FlyingPawnConfig())
	case entity.KindGlider:
		pawn = entity.NewGliderPawn(id, body, w.Config.GliderPawnConfig())
	default:
		w.EntityLock.Unlock()
		return nil, fmt.Errorf("spawn %q: %w", kind, entity.ErrUnknownPawnKind)
	}

	in := input.NewComponent()
	pawn.SetupInput(in)
	pawn.BeginPlay()

	w.Pawns[id] = pawn
	w.Bodies[id] = body
	w.Inputs[id] = in
	w.EntityLock.Unlock()

	w.Logger.Info(context.Background(), "pawn spawned", "pawn_id", uint64(id), "kind", string(kind))
	w.EventBus.Publish(event.NewPawnEvent(event.PawnSpawned, w, uint64(id), string(kind)))

	return pawn, nil
}

// Remove deletes a pawn and its body from the world
func (w *World) Remove(id entity.ID) error {
	w.EntityLock.Lock()
	pawn, ok := w.Pawns[id]
	if !ok {
		w.EntityLock.Unlock()
		return fmt.Errorf("remove %d: %w", id, ErrPawnNotFound)
	}

	delete(w.Pawns, id)
	delete(w.Bodies, id)
	delete(w.Inputs, id)
	delete(w.stalled, id)
	delete(w.atMaxSpeed, id)
	delete(w.grounded, id)
	w.EntityLock.Unlock()

	w.EventBus.Publish(event.NewPawnEvent(event.PawnRemoved, w, uint64(id), string(pawn.Kind())))
	return nil
}

// Pawn returns the pawn with the given ID
func (w *World) Pawn(id entity.ID) (entity.Pawn, bool) {
	w.EntityLock.RLock()
	defer w.EntityLock.RUnlock()
	p, ok := w.Pawns[id]
	return p, ok
}

// Input returns the input component bound to a pawn
func (w *World) Input(id entity.ID) (*input.Component, bool) {
	w.EntityLock.RLock()
	defer w.EntityLock.RUnlock()
	c, ok := w.Inputs[id]
	return c, ok
}

// Axis feeds a mouse axis value to a pawn. Axis values apply to the next
// tick.
func (w *World) Axis(id entity.ID, name string, value float64) error {
	c, ok := w.Input(id)
	if !ok {
		return fmt.Errorf("axis %s for %d: %w", name, id, ErrPawnNotFound)
	}
	w.EntityLock.Lock()
	defer w.EntityLock.Unlock()
	c.Axis(name, value)
	return nil
}

// Tick returns the number of completed ticks
func (w *World) Tick() uint64 {
	w.EntityLock.RLock()
	defer w.EntityLock.RUnlock()
	return w.CurrentTick
}

// Render draws every pawn and its debug lines
func (w *World) Render(r entity.Renderer) {
	w.EntityLock.RLock()
	defer w.EntityLock.RUnlock()

	r.Clear()
	for _, id := range w.sortedIDs() {
		p := w.Pawns[id]
		r.RenderPawn(p)
		p.Render(r)
	}
	r.Present()
}

// WorldState represents a snapshot of the world
type WorldState struct {
	Tick    uint64             `json:"tick"`
	Elapsed float64            `json:"elapsed"`
	Pawns   []entity.Telemetry `json:"pawns"`
}

// Snapshot returns the telemetry of every pawn in ID order
func (w *World) Snapshot() *WorldState {
	w.EntityLock.RLock()
	defer w.EntityLock.RUnlock()

	state := &WorldState{
		Tick:    w.CurrentTick,
		Elapsed: w.ElapsedTime,
		Pawns:   make([]entity.Telemetry, 0, len(w.Pawns)),
	}
	for _, id := range w.sortedIDs() {
		state.Pawns = append(state.Pawns, w.Pawns[id].Telemetry())
	}
	return state
}

// sortedIDs returns pawn IDs in ascending order. Callers hold EntityLock.
func (w *World) sortedIDs() []entity.ID {
	ids := make([]entity.ID, 0, len(w.Pawns))
	for id := range w.Pawns {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
