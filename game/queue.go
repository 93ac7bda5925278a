package game

// MoveQueue is the ordered list of pending destinations for one agent.
// Insertion order is execution order. The queue is not safe for
// concurrent use on its own; the owning scheduler serializes access.
type MoveQueue struct {
	items []Position
}

// Enqueue appends a destination. Duplicates are allowed; a duplicate
// of the agent's current position is dropped as a no-op when it
// reaches the head.
func (q *MoveQueue) Enqueue(dest Position) {
	q.items = append(q.items, dest)
}

// Peek returns the head destination without removing it.
func (q *MoveQueue) Peek() (Position, bool) {
	if len(q.items) == 0 {
		return Position{}, false
	}
	return q.items[0], true
}

// Pop removes and returns the head destination.
func (q *MoveQueue) Pop() (Position, bool) {
	if len(q.items) == 0 {
		return Position{}, false
	}
	head := q.items[0]
	q.items = q.items[1:]
	return head, true
}

// Replace discards all pending destinations in favor of a single one.
func (q *MoveQueue) Replace(dest Position) {
	q.items = append(q.items[:0:0], dest)
}

// Clear empties the queue.
func (q *MoveQueue) Clear() {
	q.items = nil
}

// Len returns the number of pending destinations.
func (q *MoveQueue) Len() int {
	return len(q.items)
}

// Items returns a copy of the pending destinations in order.
func (q *MoveQueue) Items() []Position {
	items := make([]Position, len(q.items))
	copy(items, q.items)
	return items
}
