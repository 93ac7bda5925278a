package game

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// Grid-related errors.
var (
	ErrOutOfBounds      = errors.New("coordinate outside the grid")
	ErrInvalidDimension = errors.New("grid dimensions must be positive")
	ErrTileBlocked      = errors.New("tile is not walkable")
)

// Grid is a dense rectangular index of tiles with an occupancy table.
// Tile types are edited only by the terrain tool; occupancy is written
// only by the schedulers driving their agents.
type Grid struct {
	width     int
	height    int
	tiles     []Tile
	occupants map[Position]uuid.UUID // at most one occupant per tile
	sync.RWMutex
}

// NewGrid creates a grid of the given dimensions with every tile set to Land.
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimension
	}

	tiles := make([]Tile, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			tiles[y*width+x] = Tile{Pos: Position{X: x, Y: y}, Type: TileLand}
		}
	}

	return &Grid{
		width:     width,
		height:    height,
		tiles:     tiles,
		occupants: make(map[Position]uuid.UUID),
	}, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	return g.height
}

// InBounds reports whether the coordinate addresses a tile.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

func (g *Grid) index(x, y int) int {
	return y*g.width + x
}

// TileAt returns the tile at the coordinate or ErrOutOfBounds.
func (g *Grid) TileAt(x, y int) (Tile, error) {
	if !g.InBounds(x, y) {
		return Tile{}, ErrOutOfBounds
	}
	g.RLock()
	defer g.RUnlock()
	return g.tiles[g.index(x, y)], nil
}

// SetTileType rewrites the terrain of a single tile.
func (g *Grid) SetTileType(x, y int, t TileType) error {
	if !g.InBounds(x, y) {
		return ErrOutOfBounds
	}
	g.Lock()
	defer g.Unlock()
	g.tiles[g.index(x, y)].Type = t
	return nil
}

// IsWalkable reports whether a tile can be stepped onto: in bounds,
// Land, and free of any blocking occupant.
func (g *Grid) IsWalkable(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	g.RLock()
	defer g.RUnlock()
	return g.isWalkableLocked(x, y)
}

func (g *Grid) isWalkableLocked(x, y int) bool {
	if g.tiles[g.index(x, y)].Type != TileLand {
		return false
	}
	_, occupied := g.occupants[Position{X: x, Y: y}]
	return !occupied
}

// Place puts an occupant on a tile. The tile must be walkable.
func (g *Grid) Place(id uuid.UUID, pos Position) error {
	if !g.InBounds(pos.X, pos.Y) {
		return ErrOutOfBounds
	}
	g.Lock()
	defer g.Unlock()
	if !g.isWalkableLocked(pos.X, pos.Y) {
		return ErrTileBlocked
	}
	g.occupants[pos] = id
	return nil
}

// MoveOccupant relocates an occupant from one tile to an adjacent one.
// The walkability check and the commit happen in the same critical
// section so two agents can never claim one tile.
func (g *Grid) MoveOccupant(id uuid.UUID, from, to Position) error {
	if !g.InBounds(to.X, to.Y) {
		return ErrOutOfBounds
	}
	g.Lock()
	defer g.Unlock()
	if g.occupants[from] != id {
		return ErrTileBlocked
	}
	if !g.isWalkableLocked(to.X, to.Y) {
		return ErrTileBlocked
	}
	delete(g.occupants, from)
	g.occupants[to] = id
	return nil
}

// Vacate removes an occupant from a tile if it is the one holding it.
func (g *Grid) Vacate(id uuid.UUID, pos Position) {
	g.Lock()
	defer g.Unlock()
	if g.occupants[pos] == id {
		delete(g.occupants, pos)
	}
}

// OccupantAt returns the occupant holding a tile, if any.
func (g *Grid) OccupantAt(pos Position) (uuid.UUID, bool) {
	g.RLock()
	defer g.RUnlock()
	id, ok := g.occupants[pos]
	return id, ok
}

// Snapshot returns the tile types as rows for rendering clients.
func (g *Grid) Snapshot() [][]TileType {
	g.RLock()
	defer g.RUnlock()
	rows := make([][]TileType, g.height)
	for y := 0; y < g.height; y++ {
		row := make([]TileType, g.width)
		for x := 0; x < g.width; x++ {
			row[x] = g.tiles[g.index(x, y)].Type
		}
		rows[y] = row
	}
	return rows
}
