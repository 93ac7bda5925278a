package game

import "fmt"

// TileType identifies the terrain of a single grid cell.
type TileType int

// Tile types. Land is traversable, Wall blocks movement.
const (
	TileLand TileType = iota
	TileWall
)

// Position identifies a tile coordinate on the grid.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String formats the position as "(x,y)".
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// ManhattanTo returns the Manhattan distance between two positions.
func (p Position) ManhattanTo(other Position) int {
	dx := p.X - other.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - other.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Tile represents a single cell of the grid.
type Tile struct {
	Pos  Position `json:"pos"`
	Type TileType `json:"type"`
}
