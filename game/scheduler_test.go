package game

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	fastStep = time.Millisecond
	slowStep = 20 * time.Millisecond

	settleTimeout = 5 * time.Second
	settleTick    = 2 * time.Millisecond
)

// recorder collects scheduler events for assertions.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) handle(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) byType(t EventType) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func (r *recorder) positions() []Position {
	var out []Position
	for _, e := range r.byType(EventPositionChanged) {
		out = append(out, *e.Pos)
	}
	return out
}

func newTestScheduler(t *testing.T, grid *Grid, start Position, step time.Duration) (*Scheduler, *recorder) {
	t.Helper()
	rec := &recorder{}
	sched := NewScheduler(NewAgent(uuid.New(), step), grid, rec.handle)
	require.NoError(t, sched.Place(start))
	return sched, rec
}

func waitIdle(t *testing.T, sched *Scheduler) {
	t.Helper()
	assert.Eventually(t, func() bool { return !sched.IsMoving() }, settleTimeout, settleTick)
}

func TestScheduler(t *testing.T) {
	t.Run("rejects operations before placement", func(t *testing.T) {
		grid := openGrid(t, 5, 5)
		sched := NewScheduler(NewAgent(uuid.New(), fastStep), grid, nil)

		assert.ErrorIs(t, sched.Enqueue(Position{1, 1}), ErrNotPlaced)
		assert.ErrorIs(t, sched.Preempt(Position{1, 1}), ErrNotPlaced)
		assert.ErrorIs(t, sched.StopAll(), ErrNotPlaced)
	})

	t.Run("rejects out-of-bounds destinations synchronously", func(t *testing.T) {
		grid := openGrid(t, 5, 5)
		sched, _ := newTestScheduler(t, grid, Position{0, 0}, fastStep)

		assert.ErrorIs(t, sched.Enqueue(Position{5, 0}), ErrOutOfBounds)
		assert.ErrorIs(t, sched.Preempt(Position{0, -1}), ErrOutOfBounds)
	})

	t.Run("two destinations visit in enqueue order", func(t *testing.T) {
		grid := openGrid(t, 5, 5)
		sched, rec := newTestScheduler(t, grid, Position{0, 0}, fastStep)

		require.NoError(t, sched.Enqueue(Position{2, 0}))
		require.NoError(t, sched.Enqueue(Position{2, 4}))
		waitIdle(t, sched)

		expected := []Position{{1, 0}, {2, 0}, {2, 1}, {2, 2}, {2, 3}, {2, 4}}
		assert.Equal(t, expected, rec.positions())
		assert.Len(t, rec.byType(EventQueueChanged), 2)
		assert.Equal(t, Position{2, 4}, sched.Position())
		assert.Empty(t, sched.Pending())
	})

	t.Run("detours when a cell on the direct route is a wall", func(t *testing.T) {
		grid := openGrid(t, 5, 5)
		require.NoError(t, grid.SetTileType(2, 2, TileWall))
		sched, rec := newTestScheduler(t, grid, Position{2, 0}, fastStep)

		require.NoError(t, sched.Enqueue(Position{2, 4}))
		waitIdle(t, sched)

		assert.Equal(t, Position{2, 4}, sched.Position())
		assert.Len(t, rec.positions(), 6) // Manhattan distance is 4, the detour costs 2 extra
	})

	t.Run("preemption replaces the queue and redirects the agent", func(t *testing.T) {
		grid := openGrid(t, 5, 5)
		sched, rec := newTestScheduler(t, grid, Position{0, 0}, slowStep)

		require.NoError(t, sched.Enqueue(Position{4, 4}))
		assert.Eventually(t, func() bool {
			return len(rec.positions()) >= 2
		}, settleTimeout, settleTick)

		require.NoError(t, sched.Preempt(Position{0, 0}))
		assert.Equal(t, []Position{{0, 0}}, sched.Pending())

		waitIdle(t, sched)
		assert.Equal(t, Position{0, 0}, sched.Position())
		assert.NotEmpty(t, rec.byType(EventMovementInterrupted))
		assert.Empty(t, sched.Pending())
	})

	t.Run("stop-all empties the queue and halts after the in-flight step", func(t *testing.T) {
		grid := openGrid(t, 5, 5)
		sched, rec := newTestScheduler(t, grid, Position{0, 0}, slowStep)

		require.NoError(t, sched.Enqueue(Position{4, 4}))
		assert.Eventually(t, func() bool {
			return len(rec.positions()) >= 1
		}, settleTimeout, settleTick)

		require.NoError(t, sched.StopAll())
		assert.Empty(t, sched.Pending())
		waitIdle(t, sched)

		// The agent keeps whatever position it last committed.
		final := sched.Position()
		occupant, ok := grid.OccupantAt(final)
		assert.True(t, ok)
		assert.Equal(t, sched.agent.ID, occupant)
	})

	t.Run("unreachable destination is skipped, not blocking", func(t *testing.T) {
		grid := openGrid(t, 5, 5)
		for _, wall := range []Position{{1, 2}, {3, 2}, {2, 1}, {2, 3}} {
			require.NoError(t, grid.SetTileType(wall.X, wall.Y, TileWall))
		}
		sched, rec := newTestScheduler(t, grid, Position{0, 0}, fastStep)

		require.NoError(t, sched.Enqueue(Position{2, 2})) // walled-off pocket
		require.NoError(t, sched.Enqueue(Position{0, 3}))
		waitIdle(t, sched)

		unreachable := rec.byType(EventDestinationUnreachable)
		require.Len(t, unreachable, 1)
		assert.Equal(t, Position{2, 2}, *unreachable[0].Pos)
		assert.Equal(t, Position{0, 3}, sched.Position())
	})

	t.Run("destination equal to the current position is a no-op", func(t *testing.T) {
		grid := openGrid(t, 5, 5)
		sched, rec := newTestScheduler(t, grid, Position{1, 1}, fastStep)

		require.NoError(t, sched.Enqueue(Position{1, 1}))
		waitIdle(t, sched)

		assert.Empty(t, rec.positions())
		assert.Len(t, rec.byType(EventQueueChanged), 1)
		assert.Equal(t, Position{1, 1}, sched.Position())
	})

	t.Run("enqueue during traversal does not spawn a second loop", func(t *testing.T) {
		grid := openGrid(t, 6, 1)
		sched, rec := newTestScheduler(t, grid, Position{0, 0}, fastStep)

		require.NoError(t, sched.Enqueue(Position{2, 0}))
		require.NoError(t, sched.Enqueue(Position{4, 0}))
		require.NoError(t, sched.Enqueue(Position{5, 0}))
		waitIdle(t, sched)

		// A second concurrent loop would duplicate or reorder steps.
		expected := []Position{{1, 0}, {2, 0}, {3, 0}, {4, 0}, {5, 0}}
		assert.Equal(t, expected, rec.positions())
	})

	t.Run("occupancy tracks the agent at every observable instant", func(t *testing.T) {
		grid := openGrid(t, 5, 1)
		sched, _ := newTestScheduler(t, grid, Position{0, 0}, fastStep)

		require.NoError(t, sched.Enqueue(Position{4, 0}))
		waitIdle(t, sched)

		occupant, ok := grid.OccupantAt(Position{4, 0})
		assert.True(t, ok)
		assert.Equal(t, sched.agent.ID, occupant)
		for x := 0; x < 4; x++ {
			_, held := grid.OccupantAt(Position{X: x, Y: 0})
			assert.False(t, held)
		}
	})

	t.Run("approach semantics toward another agent", func(t *testing.T) {
		grid := openGrid(t, 5, 5)
		require.NoError(t, grid.Place(uuid.New(), Position{X: 4, Y: 0}))
		sched, _ := newTestScheduler(t, grid, Position{0, 0}, fastStep)

		require.NoError(t, sched.Enqueue(Position{4, 0}))
		waitIdle(t, sched)

		assert.Equal(t, 1, sched.Position().ManhattanTo(Position{4, 0}))
	})
}
