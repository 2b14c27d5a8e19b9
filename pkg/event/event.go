// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Simulation event types
const (
	SimulationStarted Type = "simulation_started"
	SimulationStopped Type = "simulation_stopped"
	AssetLoaded       Type = "asset_loaded"
	AssetLoadFailed   Type = "asset_load_failed"
	ViewportResized   Type = "viewport_resized"
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

// Subscription identifies a registered handler.
type Subscription struct {
	ID     uint64
	Cancel func()
}

type subscriber struct {
	id      uint64
	handler Handler
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

	return &Subscription{
		ID:     id,
		Cancel: func() { b.unsubscribe(eventType, id) },
	}
}

func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, s := range subs {
		if s.id == id {
			// copy so a concurrent Publish keeps its snapshot intact
			next := make([]subscriber, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			next = append(next, subs[i+1:]...)
			b.handlers[eventType] = next
			return
		}
	}
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	if b == nil {
		return
	}

	b.mu.RLock()
	subs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// Specific event implementations

// AssetEvent reports the outcome of a boat model load
type AssetEvent struct {
	BaseEvent
	Path string
	Name string
	Err  error
}

// NewAssetLoadedEvent creates an asset_loaded event
func NewAssetLoadedEvent(source interface{}, path, name string) *AssetEvent {
	return &AssetEvent{
		BaseEvent: BaseEvent{EventType: AssetLoaded, Source: source},
		Path:      path,
		Name:      name,
	}
}

// NewAssetLoadFailedEvent creates an asset_load_failed event
func NewAssetLoadFailedEvent(source interface{}, path string, err error) *AssetEvent {
	return &AssetEvent{
		BaseEvent: BaseEvent{EventType: AssetLoadFailed, Source: source},
		Path:      path,
		Err:       err,
	}
}

// ViewportEvent contains the new viewport size
type ViewportEvent struct {
	BaseEvent
	Width  int
	Height int
}

// NewViewportEvent creates a viewport_resized event
func NewViewportEvent(source interface{}, width, height int) *ViewportEvent {
	return &ViewportEvent{
		BaseEvent: BaseEvent{EventType: ViewportResized, Source: source},
		Width:     width,
		Height:    height,
	}
}

// SimulationEvent marks a simulation lifecycle change
type SimulationEvent struct {
	BaseEvent
	Frame uint64
}

// NewSimulationEvent creates a simulation lifecycle event
func NewSimulationEvent(eventType Type, source interface{}, frame uint64) *SimulationEvent {
	return &SimulationEvent{
		BaseEvent: BaseEvent{EventType: eventType, Source: source},
		Frame:     frame,
	}
}
