// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Flight event types
const (
	PawnSpawned       Type = "pawn_spawned"
	PawnRemoved       Type = "pawn_removed"
	SimulationStarted Type = "simulation_started"
	SimulationStopped Type = "simulation_stopped"
	GliderStalled     Type = "glider_stalled"
	GliderRecovered   Type = "glider_recovered"
	SpeedLimitReached Type = "speed_limit_reached"
	GroundContact     Type = "ground_contact"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

type subscriber struct {
	id      uint64
	handler Handler
}

// Subscription identifies a registered handler
type Subscription struct {
	ID     uint64
	Cancel func()
}

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]subscriber
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscriber),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscriber{id: id, handler: handler})

	var once sync.Once
	return &Subscription{
		ID: id,
		Cancel: func() {
			once.Do(func() { b.unsubscribe(eventType, id) })
		},
	}
}

// Unsubscribe removes the handler registered by sub
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub == nil || sub.Cancel == nil {
		return
	}
	sub.Cancel()
}

func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	handlers := b.handlers[eventType]
	for i, s := range handlers {
		if s.id == id {
			// Copy so a Publish iterating the old slice is unaffected.
			remaining := make([]subscriber, 0, len(handlers)-1)
			remaining = append(remaining, handlers[:i]...)
			remaining = append(remaining, handlers[i+1:]...)
			b.handlers[eventType] = remaining
			return
		}
	}
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, s := range handlers {
		s.handler(event)
	}
}

// Specific event implementations

// PawnEvent contains information about pawn lifecycle events
type PawnEvent struct {
	BaseEvent
	PawnID uint64
	Kind   string
}

// NewPawnEvent creates a new pawn event
func NewPawnEvent(eventType Type, source interface{}, pawnID uint64, kind string) *PawnEvent {
	return &PawnEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		PawnID: pawnID,
		Kind:   kind,
	}
}

// SpeedEvent reports a pawn crossing a speed threshold
type SpeedEvent struct {
	BaseEvent
	PawnID   uint64
	Speed    float64
	Altitude float64
	Tick     uint64
}

// NewSpeedEvent creates a new speed event
func NewSpeedEvent(eventType Type, source interface{}, pawnID uint64, speed, altitude float64, tick uint64) *SpeedEvent {
	return &SpeedEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		PawnID:   pawnID,
		Speed:    speed,
		Altitude: altitude,
		Tick:     tick,
	}
}
