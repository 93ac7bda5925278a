package worldgen

import (
	"testing"

	"github.com/gridwalk/gridwalk-api/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMazeGrid(t *testing.T) {
	t.Run("rejects bad dimensions", func(t *testing.T) {
		_, err := NewMazeGrid(0, 5, 1)
		assert.ErrorIs(t, err, ErrInvalidDimension)
		_, err = NewMazeGrid(5, maxCellDimension+1, 1)
		assert.ErrorIs(t, err, ErrInvalidDimension)
	})

	t.Run("expands cells to tiles", func(t *testing.T) {
		grid, err := NewMazeGrid(4, 3, 7)
		require.NoError(t, err)
		assert.Equal(t, 9, grid.Width())
		assert.Equal(t, 7, grid.Height())

		// Every cell tile is Land, the whole border is Wall.
		for r := 0; r < 3; r++ {
			for c := 0; c < 4; c++ {
				tile, err := grid.TileAt(2*c+1, 2*r+1)
				require.NoError(t, err)
				assert.Equal(t, game.TileLand, tile.Type)
			}
		}
		for x := 0; x < grid.Width(); x++ {
			tile, err := grid.TileAt(x, 0)
			require.NoError(t, err)
			assert.Equal(t, game.TileWall, tile.Type)
		}
	})

	t.Run("every cell is reachable from every other", func(t *testing.T) {
		grid, err := NewMazeGrid(6, 6, 42)
		require.NoError(t, err)
		finder := game.NewPathFinder(grid)

		origin := game.Position{X: 1, Y: 1}
		for r := 0; r < 6; r++ {
			for c := 0; c < 6; c++ {
				goal := game.Position{X: 2*c + 1, Y: 2*r + 1}
				if goal == origin {
					continue
				}
				_, err := finder.FindPath(origin, goal)
				assert.NoError(t, err, "cell (%d,%d) unreachable", c, r)
			}
		}
	})

	t.Run("same seed yields the same layout", func(t *testing.T) {
		a, err := NewMazeGrid(5, 5, 99)
		require.NoError(t, err)
		b, err := NewMazeGrid(5, 5, 99)
		require.NoError(t, err)
		assert.Equal(t, a.Snapshot(), b.Snapshot())
	})
}

func TestNewOpenGrid(t *testing.T) {
	t.Run("zero density is all Land", func(t *testing.T) {
		grid, err := NewOpenGrid(8, 8, 0, 1)
		require.NoError(t, err)
		for _, row := range grid.Snapshot() {
			for _, tile := range row {
				assert.Equal(t, game.TileLand, tile)
			}
		}
	})

	t.Run("border tiles stay open", func(t *testing.T) {
		grid, err := NewOpenGrid(8, 8, 0.9, 5)
		require.NoError(t, err)
		snapshot := grid.Snapshot()
		for x := 0; x < 8; x++ {
			assert.Equal(t, game.TileLand, snapshot[0][x])
			assert.Equal(t, game.TileLand, snapshot[7][x])
		}
	})
}
