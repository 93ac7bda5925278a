/*
Package worldgen builds tile grids for the world service.

Maze layouts come from Wilson's algorithm: a cell maze is carved by
loop-erased random walks and then expanded onto tiles, one Land tile
per cell with Wall tiles wherever a wall was left standing. Every cell
of a maze layout is reachable from every other. Open layouts are plain
Land grids with walls scattered at a configurable density.
*/
package worldgen

import (
	"errors"
	"math/rand"

	"github.com/gridwalk/gridwalk-api/game"
)

const maxCellDimension = 50

// ErrInvalidDimension is returned for non-positive or oversized layouts.
var ErrInvalidDimension = errors.New("invalid world dimensions")

type cellPos struct {
	row int
	col int
}

type cellMove struct {
	from cellPos
	to   cellPos
}

// cell walls; a freshly created maze has every wall standing.
type cell struct {
	north bool
	south bool
	east  bool
	west  bool
}

type mazeBuilder struct {
	width  int
	height int
	cells  [][]cell
	rng    *rand.Rand
}

// NewMazeGrid generates a maze of cellsWide x cellsHigh cells and
// expands it to a (2*cellsWide+1) x (2*cellsHigh+1) tile grid.
func NewMazeGrid(cellsWide, cellsHigh int, seed int64) (*game.Grid, error) {
	if cellsWide <= 0 || cellsHigh <= 0 || max(cellsWide, cellsHigh) > maxCellDimension {
		return nil, ErrInvalidDimension
	}

	b := &mazeBuilder{
		width:  cellsWide,
		height: cellsHigh,
		cells:  make([][]cell, cellsHigh),
		rng:    rand.New(rand.NewSource(seed)),
	}
	for r := range b.cells {
		b.cells[r] = make([]cell, cellsWide)
		for c := range b.cells[r] {
			b.cells[r][c] = cell{north: true, south: true, east: true, west: true}
		}
	}
	b.carve()
	return b.expand()
}

// NewOpenGrid creates an all-Land grid with walls scattered at the
// given density in (0,1). Border tiles are left open so terrain edits
// stay the only source of unreachable pockets.
func NewOpenGrid(width, height int, wallDensity float64, seed int64) (*game.Grid, error) {
	grid, err := game.NewGrid(width, height)
	if err != nil {
		return nil, err
	}
	if wallDensity <= 0 {
		return grid, nil
	}

	rng := rand.New(rand.NewSource(seed))
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			if rng.Float64() < wallDensity {
				_ = grid.SetTileType(x, y, game.TileWall)
			}
		}
	}
	return grid, nil
}

func (b *mazeBuilder) randomCell() cellPos {
	return cellPos{row: b.rng.Intn(b.height), col: b.rng.Intn(b.width)}
}

func (b *mazeBuilder) randomUnvisitedCell(visited map[cellPos]struct{}) cellPos {
	for {
		pos := b.randomCell()
		if _, included := visited[pos]; !included {
			return pos
		}
	}
}

func (b *mazeBuilder) neighbors(pos cellPos) []cellMove {
	deltas := []cellPos{{row: -1}, {row: 1}, {col: 1}, {col: -1}}
	var result []cellMove
	for _, delta := range deltas {
		next := cellPos{row: pos.row + delta.row, col: pos.col + delta.col}
		if next.row >= 0 && next.row < b.height && next.col >= 0 && next.col < b.width {
			result = append(result, cellMove{from: pos, to: next})
		}
	}
	return result
}

// openWall removes the wall between two adjacent cells.
func (b *mazeBuilder) openWall(move cellMove) {
	switch {
	case move.to.row < move.from.row:
		b.cells[move.from.row][move.from.col].north = false
		b.cells[move.to.row][move.to.col].south = false
	case move.to.row > move.from.row:
		b.cells[move.from.row][move.from.col].south = false
		b.cells[move.to.row][move.to.col].north = false
	case move.to.col > move.from.col:
		b.cells[move.from.row][move.from.col].east = false
		b.cells[move.to.row][move.to.col].west = false
	default:
		b.cells[move.from.row][move.from.col].west = false
		b.cells[move.to.row][move.to.col].east = false
	}
}

// randomWalk performs a loop-erased random walk until it hits a
// visited cell. Revisiting a cell overwrites its exit, which erases
// the loop.
func (b *mazeBuilder) randomWalk(visited map[cellPos]struct{}) map[cellPos]cellMove {
	visits := make(map[cellPos]cellMove)
	current := b.randomUnvisitedCell(visited)
	for {
		neighbors := b.neighbors(current)
		next := neighbors[b.rng.Intn(len(neighbors))]
		visits[current] = next
		if _, included := visited[next.to]; included {
			break
		}
		current = next.to
	}
	return visits
}

// carve runs Wilson's algorithm until every cell is part of the maze.
func (b *mazeBuilder) carve() {
	visited := make(map[cellPos]struct{})
	visited[b.randomCell()] = struct{}{}

	for len(visited) < b.width*b.height {
		for pos, move := range b.randomWalk(visited) {
			b.openWall(move)
			visited[pos] = struct{}{}
		}
	}
}

// expand maps the cell maze onto tiles: cell (r,c) becomes Land tile
// (2c+1, 2r+1), standing walls become Wall tiles between them, and
// the outer border is all Wall.
func (b *mazeBuilder) expand() (*game.Grid, error) {
	tileW := 2*b.width + 1
	tileH := 2*b.height + 1
	grid, err := game.NewGrid(tileW, tileH)
	if err != nil {
		return nil, err
	}

	for y := 0; y < tileH; y++ {
		for x := 0; x < tileW; x++ {
			if err := grid.SetTileType(x, y, game.TileWall); err != nil {
				return nil, err
			}
		}
	}

	for r := 0; r < b.height; r++ {
		for c := 0; c < b.width; c++ {
			x, y := 2*c+1, 2*r+1
			_ = grid.SetTileType(x, y, game.TileLand)
			if !b.cells[r][c].east && c+1 < b.width {
				_ = grid.SetTileType(x+1, y, game.TileLand)
			}
			if !b.cells[r][c].south && r+1 < b.height {
				_ = grid.SetTileType(x, y+1, game.TileLand)
			}
		}
	}
	return grid, nil
}
