package game

import "github.com/google/uuid"

// EventType identifies a scheduler notification.
type EventType string

// Notifications emitted by a scheduler for the rendering layer.
const (
	EventPositionChanged        EventType = "position_changed"
	EventQueueChanged           EventType = "queue_changed"
	EventDestinationUnreachable EventType = "destination_unreachable"
	EventMovementInterrupted    EventType = "movement_interrupted"
)

// Event is a single scheduler notification.
type Event struct {
	Type    EventType  `json:"type"`
	AgentID uuid.UUID  `json:"agent_id"`
	Pos     *Position  `json:"pos,omitempty"`
	Queue   []Position `json:"queue,omitempty"`
}

// EventHandler receives scheduler notifications. Handlers are called
// from the scheduler goroutine and must not block.
type EventHandler func(Event)
