package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoveQueue(t *testing.T) {
	var q MoveQueue

	t.Run("insertion order is execution order", func(t *testing.T) {
		q.Enqueue(Position{1, 0})
		q.Enqueue(Position{2, 0})
		q.Enqueue(Position{1, 0}) // duplicates are permitted

		head, ok := q.Peek()
		assert.True(t, ok)
		assert.Equal(t, Position{1, 0}, head)
		assert.Equal(t, 3, q.Len())

		popped, ok := q.Pop()
		assert.True(t, ok)
		assert.Equal(t, Position{1, 0}, popped)
		assert.Equal(t, []Position{{2, 0}, {1, 0}}, q.Items())
	})

	t.Run("replace keeps only the new destination", func(t *testing.T) {
		q.Replace(Position{4, 4})
		assert.Equal(t, []Position{{4, 4}}, q.Items())
	})

	t.Run("clear empties the queue", func(t *testing.T) {
		q.Clear()
		assert.Zero(t, q.Len())
		_, ok := q.Peek()
		assert.False(t, ok)
		_, ok = q.Pop()
		assert.False(t, ok)
	})
}
