package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openGrid(t *testing.T, w, h int) *Grid {
	t.Helper()
	grid, err := NewGrid(w, h)
	require.NoError(t, err)
	return grid
}

func TestFindPath(t *testing.T) {
	t.Run("shortest path on an open grid matches Manhattan distance", func(t *testing.T) {
		grid := openGrid(t, 5, 5)
		finder := NewPathFinder(grid)

		cases := []struct {
			start, goal Position
		}{
			{Position{0, 0}, Position{4, 4}},
			{Position{0, 0}, Position{2, 0}},
			{Position{4, 0}, Position{0, 3}},
			{Position{2, 2}, Position{2, 4}},
		}
		for _, tc := range cases {
			path, err := finder.FindPath(tc.start, tc.goal)
			require.NoError(t, err)
			assert.Equal(t, tc.start, path[0])
			assert.Equal(t, tc.goal, path[len(path)-1])
			assert.Equal(t, tc.start.ManhattanTo(tc.goal), len(path)-1)
		}
	})

	t.Run("expansion order is deterministic", func(t *testing.T) {
		grid := openGrid(t, 5, 5)
		finder := NewPathFinder(grid)

		path, err := finder.FindPath(Position{0, 0}, Position{2, 2})
		require.NoError(t, err)
		expected := []Position{{0, 0}, {1, 0}, {2, 0}, {2, 1}, {2, 2}}
		assert.Equal(t, expected, path)
	})

	t.Run("every path coordinate is walkable", func(t *testing.T) {
		grid := openGrid(t, 5, 5)
		require.NoError(t, grid.SetTileType(1, 1, TileWall))
		require.NoError(t, grid.SetTileType(3, 2, TileWall))
		finder := NewPathFinder(grid)

		path, err := finder.FindPath(Position{0, 0}, Position{4, 4})
		require.NoError(t, err)
		for _, pos := range path[1:] {
			assert.True(t, grid.IsWalkable(pos.X, pos.Y), "position %s", pos)
		}
	})

	t.Run("detours around a single blocked cell", func(t *testing.T) {
		grid := openGrid(t, 5, 5)
		require.NoError(t, grid.SetTileType(2, 2, TileWall))
		finder := NewPathFinder(grid)

		start := Position{2, 0}
		goal := Position{2, 4}
		path, err := finder.FindPath(start, goal)
		require.NoError(t, err)
		assert.Equal(t, goal, path[len(path)-1])
		assert.Greater(t, len(path)-1, start.ManhattanTo(goal))
		assert.Equal(t, 6, len(path)-1)
	})

	t.Run("walled-off walkable goal is unreachable", func(t *testing.T) {
		grid := openGrid(t, 5, 5)
		for _, wall := range []Position{{1, 2}, {3, 2}, {2, 1}, {2, 3}} {
			require.NoError(t, grid.SetTileType(wall.X, wall.Y, TileWall))
		}

		finder := NewPathFinder(grid)
		_, err := finder.FindPath(Position{0, 0}, Position{2, 2})
		assert.ErrorIs(t, err, ErrNoPath)
	})

	t.Run("approaches a wall goal via an adjacent tile", func(t *testing.T) {
		grid := openGrid(t, 5, 5)
		require.NoError(t, grid.SetTileType(2, 2, TileWall))
		finder := NewPathFinder(grid)

		path, err := finder.FindPath(Position{0, 0}, Position{2, 2})
		require.NoError(t, err)
		last := path[len(path)-1]
		assert.Equal(t, 1, last.ManhattanTo(Position{2, 2}))
		assert.Equal(t, last.ManhattanTo(Position{0, 0}), len(path)-1)
	})

	t.Run("approaches an occupied goal via an adjacent tile", func(t *testing.T) {
		grid := openGrid(t, 5, 5)
		require.NoError(t, grid.Place(uuid.New(), Position{X: 4, Y: 4}))
		finder := NewPathFinder(grid)

		path, err := finder.FindPath(Position{0, 0}, Position{4, 4})
		require.NoError(t, err)
		last := path[len(path)-1]
		assert.Equal(t, 1, last.ManhattanTo(Position{4, 4}))
	})

	t.Run("standing beside an unenterable goal is a no-op", func(t *testing.T) {
		grid := openGrid(t, 5, 5)
		require.NoError(t, grid.SetTileType(2, 2, TileWall))
		finder := NewPathFinder(grid)

		_, err := finder.FindPath(Position{2, 1}, Position{2, 2})
		assert.ErrorIs(t, err, ErrAlreadyAtTarget)
	})

	t.Run("falls back to the closest reachable tile when no neighbor is reachable", func(t *testing.T) {
		grid := openGrid(t, 5, 5)
		for _, wall := range []Position{{4, 4}, {3, 4}, {4, 3}} {
			require.NoError(t, grid.SetTileType(wall.X, wall.Y, TileWall))
		}

		finder := NewPathFinder(grid)
		path, err := finder.FindPath(Position{0, 0}, Position{4, 4})
		require.NoError(t, err)
		// (4,2), (3,3) and (2,4) are all two tiles from the goal; BFS
		// visit order makes (4,2) the deterministic winner.
		assert.Equal(t, Position{4, 2}, path[len(path)-1])
		assert.Equal(t, 2, path[len(path)-1].ManhattanTo(Position{4, 4}))
	})

	t.Run("start equal to goal", func(t *testing.T) {
		grid := openGrid(t, 5, 5)
		finder := NewPathFinder(grid)

		_, err := finder.FindPath(Position{1, 1}, Position{1, 1})
		assert.ErrorIs(t, err, ErrAlreadyAtTarget)
	})

	t.Run("out-of-bounds endpoints", func(t *testing.T) {
		grid := openGrid(t, 5, 5)
		finder := NewPathFinder(grid)

		_, err := finder.FindPath(Position{0, 0}, Position{5, 0})
		assert.ErrorIs(t, err, ErrOutOfBounds)
		_, err = finder.FindPath(Position{-1, 0}, Position{1, 1})
		assert.ErrorIs(t, err, ErrOutOfBounds)
	})
}
