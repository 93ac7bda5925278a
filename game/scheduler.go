package game

import (
	"errors"
	"sync"
	"time"
)

// ErrNotPlaced is returned for operations on an agent that was never
// placed on the grid.
var ErrNotPlaced = errors.New("agent is not placed on the grid")

// Scheduler drives one traversal at a time for a single agent. It is
// the only writer of the agent's position and of the grid occupancy
// slot the agent holds. Destinations are processed in FIFO order;
// Preempt and StopAll interrupt the active traversal at the next step
// boundary, never mid-step.
type Scheduler struct {
	agent  *Agent
	grid   *Grid
	finder *PathFinder

	queue       MoveQueue
	running     bool // guards against a second concurrent loop
	interrupted bool
	placed      bool

	handler EventHandler
	mu      sync.Mutex
}

// NewScheduler creates a scheduler for one agent. The handler receives
// all notifications the scheduler emits; it may be nil.
func NewScheduler(agent *Agent, grid *Grid, handler EventHandler) *Scheduler {
	return &Scheduler{
		agent:   agent,
		grid:    grid,
		finder:  NewPathFinder(grid),
		handler: handler,
	}
}

// Place puts the agent on a walkable tile and claims its occupancy.
func (s *Scheduler) Place(pos Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.grid.Place(s.agent.ID, pos); err != nil {
		return err
	}
	if s.placed {
		s.grid.Vacate(s.agent.ID, s.agent.pos)
	}
	s.agent.pos = pos
	s.placed = true
	return nil
}

// Remove halts the agent and releases its tile.
func (s *Scheduler) Remove() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.placed {
		return
	}
	s.interrupted = true
	s.agent.moveToken++
	s.queue.Clear()
	s.grid.Vacate(s.agent.ID, s.agent.pos)
	s.placed = false
}

// Enqueue appends a destination and starts the processing loop if it
// is not already running. An in-flight traversal is not disturbed.
func (s *Scheduler) Enqueue(dest Position) error {
	if !s.grid.InBounds(dest.X, dest.Y) {
		return ErrOutOfBounds
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.placed {
		return ErrNotPlaced
	}
	s.queue.Enqueue(dest)
	s.startLocked()
	return nil
}

// Preempt discards every pending destination in favor of dest and
// interrupts the active traversal at its next checkpoint.
func (s *Scheduler) Preempt(dest Position) error {
	if !s.grid.InBounds(dest.X, dest.Y) {
		return ErrOutOfBounds
	}
	s.mu.Lock()
	if !s.placed {
		s.mu.Unlock()
		return ErrNotPlaced
	}
	wasRunning := s.running
	s.interrupted = true
	s.agent.moveToken++
	s.queue.Replace(dest)
	queued := s.queue.Items()
	if !s.running {
		s.running = true
		s.agent.moving = true
		go s.run()
	}
	s.mu.Unlock()

	if wasRunning {
		s.emit(Event{Type: EventMovementInterrupted, AgentID: s.agent.ID})
	}
	s.emit(Event{Type: EventQueueChanged, AgentID: s.agent.ID, Queue: queued})
	return nil
}

// StopAll clears the queue and halts the agent. A step already
// committed is never rolled back; the agent goes idle once the
// in-flight step completes.
func (s *Scheduler) StopAll() error {
	s.mu.Lock()
	if !s.placed {
		s.mu.Unlock()
		return ErrNotPlaced
	}
	wasRunning := s.running
	s.interrupted = true
	s.agent.moveToken++
	s.queue.Clear()
	s.mu.Unlock()

	if wasRunning {
		s.emit(Event{Type: EventMovementInterrupted, AgentID: s.agent.ID})
	}
	s.emit(Event{Type: EventQueueChanged, AgentID: s.agent.ID, Queue: []Position{}})
	return nil
}

// Position returns the agent's current coordinate.
func (s *Scheduler) Position() Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agent.pos
}

// Pending returns the ordered pending destinations.
func (s *Scheduler) Pending() []Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Items()
}

// IsMoving reports whether the processing loop is active.
func (s *Scheduler) IsMoving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agent.moving
}

// startLocked launches the processing loop unless one is running.
// Callers must hold s.mu.
func (s *Scheduler) startLocked() {
	if s.running {
		return
	}
	s.running = true
	s.interrupted = false
	s.agent.moving = true
	go s.run()
}

// run is the processing loop. Exactly one instance per scheduler is
// alive at any time. When an interruption is observed the loop does
// not die; it clears the flag and re-enters against the refreshed
// queue, which covers a preemption that arrived while a step was in
// flight.
func (s *Scheduler) run() {
	for {
		s.mu.Lock()
		if s.interrupted {
			s.interrupted = false
			s.mu.Unlock()
			continue
		}
		head, ok := s.queue.Peek()
		if !ok {
			s.running = false
			s.agent.moving = false
			s.mu.Unlock()
			return
		}
		token := s.agent.moveToken
		start := s.agent.pos
		s.mu.Unlock()

		path, err := s.finder.FindPath(start, head)
		switch {
		case errors.Is(err, ErrAlreadyAtTarget):
			s.popHead(token)
		case err != nil:
			// One unreachable destination never blocks the rest of the
			// queue.
			if s.popHead(token) {
				s.emit(Event{Type: EventDestinationUnreachable, AgentID: s.agent.ID, Pos: &head})
			}
		default:
			if s.walk(path, token) {
				s.popHead(token)
			}
		}
	}
}

// walk executes a path one step at a time, pausing stepDelay after
// each committed step. Cancellation is checked before every step;
// a step is committed atomically (occupancy and position together) or
// not at all. Returns false if the traversal was abandoned.
func (s *Scheduler) walk(path []Position, token uint64) bool {
	for _, next := range path[1:] {
		s.mu.Lock()
		if s.interrupted || s.agent.moveToken != token {
			s.mu.Unlock()
			return false
		}
		if err := s.grid.MoveOccupant(s.agent.ID, s.agent.pos, next); err != nil {
			// Terrain changed or another agent claimed the tile since
			// the path was computed; re-path against the same head.
			s.mu.Unlock()
			return false
		}
		s.agent.pos = next
		s.mu.Unlock()

		s.emit(Event{Type: EventPositionChanged, AgentID: s.agent.ID, Pos: &next})
		time.Sleep(s.agent.stepDelay)
	}
	return true
}

// popHead drops the completed (or skipped) head destination, unless a
// preemption or stop superseded the traversal in the meantime. The
// queue then already reflects the newer request and must stay intact.
func (s *Scheduler) popHead(token uint64) bool {
	s.mu.Lock()
	if s.interrupted || s.agent.moveToken != token {
		s.mu.Unlock()
		return false
	}
	s.queue.Pop()
	queued := s.queue.Items()
	s.mu.Unlock()
	s.emit(Event{Type: EventQueueChanged, AgentID: s.agent.ID, Queue: queued})
	return true
}

func (s *Scheduler) emit(e Event) {
	if s.handler != nil {
		s.handler(e)
	}
}
