package i

import (
	"context"

	"github.com/gridwalk/gridwalk-api/game"
	"github.com/google/uuid"
)

// AgentState is a point-in-time view of one agent for API queries.
type AgentState struct {
	Position game.Position
	Moving   bool
	Pending  []game.Position
}

// WorldSnapshot is a point-in-time view of the world for rendering.
type WorldSnapshot struct {
	Width  int
	Height int
	Tiles  [][]game.TileType
	Agents map[uuid.UUID]game.Position
}

// WorldManager owns the shared grid and one movement scheduler per
// admitted agent.
type WorldManager interface {
	// Join queues a user for admission to the world.
	Join(ctx context.Context, userID uuid.UUID) error

	// Leave removes the user's agent and frees its tile.
	Leave(userID uuid.UUID) error

	// EnqueueDestination appends a destination to the agent's queue.
	EnqueueDestination(agentID uuid.UUID, x, y int) error

	// PreemptTo discards the agent's pending destinations in favor of
	// a priority destination.
	PreemptTo(agentID uuid.UUID, x, y int) error

	// Stop clears the agent's queue and halts it.
	Stop(agentID uuid.UUID) error

	// AgentState returns position, moving flag and pending queue.
	AgentState(agentID uuid.UUID) (AgentState, error)

	// Snapshot returns the terrain and agent positions.
	Snapshot() WorldSnapshot

	// PaintTile rewrites the terrain of one tile.
	PaintTile(x, y int, t game.TileType) error
}
