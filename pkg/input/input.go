// pkg/input/input.go
package input

import "sync"

// Axis names bound by pawns.
const (
	AxisTurn   = "Turn"
	AxisLookUp = "LookUp"
)

// AxisHandler receives the raw value of a named axis for one frame.
type AxisHandler func(value float64)

// Component routes named axis values to the handlers a pawn registered.
type Component struct {
	mu       sync.RWMutex
	handlers map[string][]AxisHandler
}

// NewComponent creates an empty input component
func NewComponent() *Component {
	return &Component{
		handlers: make(map[string][]AxisHandler),
	}
}

// BindAxis registers fn for the named axis. Several handlers may share an axis.
func (c *Component) BindAxis(name string, fn AxisHandler) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[name] = append(c.handlers[name], fn)
}

// Axis dispatches value to every handler bound to name. It reports whether
// any handler received it.
func (c *Component) Axis(name string, value float64) bool {
	c.mu.RLock()
	handlers := c.handlers[name]
	c.mu.RUnlock()

	for _, fn := range handlers {
		fn(value)
	}
	return len(handlers) > 0
}

// Bound reports whether name has at least one handler.
func (c *Component) Bound(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.handlers[name]) > 0
}

// Clear removes every binding.
func (c *Component) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = make(map[string][]AxisHandler)
}
