package game

import (
	"time"

	"github.com/google/uuid"
)

const defaultStepDelay = 250 * time.Millisecond

// Agent is a mobile entity on the grid. Its position, generation token
// and moving flag are written only by the scheduler that owns it.
type Agent struct {
	ID uuid.UUID

	pos       Position
	moveToken uint64 // bumped to invalidate stale traversals
	moving    bool
	stepDelay time.Duration
}

// NewAgent creates an agent walking one tile per stepDelay.
func NewAgent(id uuid.UUID, stepDelay time.Duration) *Agent {
	if stepDelay <= 0 {
		stepDelay = defaultStepDelay
	}
	return &Agent{ID: id, stepDelay: stepDelay}
}
