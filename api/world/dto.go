// Package worldapi exposes the movement core over HTTP: joining the
// world, queueing destinations, and editing terrain.
package worldapi

import (
	"errors"

	"github.com/gridwalk/gridwalk-api/game"
)

// ErrUnknownTileType is returned for tile edits with an unrecognized type.
var ErrUnknownTileType = errors.New("unknown tile type")

// MoveRequest carries one destination coordinate. Pointers keep (0,0)
// distinguishable from an absent field.
type MoveRequest struct {
	X *int `json:"x" binding:"required"`
	Y *int `json:"y" binding:"required"`
}

// TileRequest rewrites the terrain of one tile.
type TileRequest struct {
	X    *int   `json:"x" binding:"required"`
	Y    *int   `json:"y" binding:"required"`
	Type string `json:"type" binding:"required"`
}

// AgentResponse reports one agent's movement state.
type AgentResponse struct {
	ID       string          `json:"id"`
	Position game.Position   `json:"position"`
	Moving   bool            `json:"moving"`
	Pending  []game.Position `json:"pending"`
}

// WorldResponse reports the terrain and all agent positions.
type WorldResponse struct {
	Width  int                      `json:"width"`
	Height int                      `json:"height"`
	Tiles  [][]game.TileType        `json:"tiles"`
	Agents map[string]game.Position `json:"agents"`
}

func parseTileType(name string) (game.TileType, error) {
	switch name {
	case "land":
		return game.TileLand, nil
	case "wall":
		return game.TileWall, nil
	default:
		return game.TileLand, ErrUnknownTileType
	}
}
