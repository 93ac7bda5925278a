package service

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"github.com/gridwalk/gridwalk-api/config"
	"github.com/gridwalk/gridwalk-api/game"
	"github.com/gridwalk/gridwalk-api/service/i"
	"github.com/google/uuid"
)

const (
	joinQueueKey        = "world:join_queue"
	defaultAdmitEvery   = time.Second
	defaultWorldCapcity = 16
)

// World manager errors.
var (
	ErrWorldFull      = errors.New("world is at capacity")
	ErrAlreadyInWorld = errors.New("user already has an agent in the world")
)

// WorldManager owns the shared grid and one scheduler per admitted
// agent. Join requests wait in a redis-backed sorted queue and are
// admitted in arrival order whenever capacity allows.
type WorldManager struct {
	grid       *game.Grid
	schedulers map[uuid.UUID]*game.Scheduler

	capacity  int
	stepDelay time.Duration

	joinQueue   i.SortedQueue
	broadcaster i.Broadcaster
	logger      *log.Logger

	admitTicker *time.Ticker
	stop        chan bool
	sync.RWMutex
}

// WorldConfig passes the required dependencies for a WorldManager.
type WorldConfig struct {
	Grid        *game.Grid
	Capacity    int
	StepDelay   time.Duration
	JoinQueue   i.SortedQueue
	Broadcaster i.Broadcaster
	Logger      *log.Logger
}

// NewWorldManager creates a WorldManager for one shared world.
func NewWorldManager(c *WorldConfig) (*WorldManager, error) {
	if c.Grid == nil || c.JoinQueue == nil {
		return nil, errors.New("world manager requires a grid and a join queue")
	}
	capacity := c.Capacity
	if capacity <= 0 {
		capacity = defaultWorldCapcity
	}
	logger := c.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &WorldManager{
		grid:        c.Grid,
		schedulers:  make(map[uuid.UUID]*game.Scheduler),
		capacity:    capacity,
		stepDelay:   c.StepDelay,
		joinQueue:   c.JoinQueue,
		broadcaster: c.Broadcaster,
		logger:      logger,
		stop:        make(chan bool, 1),
	}, nil
}

// Start runs the admission loop until Stop is called.
func (w *WorldManager) Start() {
	w.admitTicker = time.NewTicker(defaultAdmitEvery)
	for {
		select {
		case <-w.stop:
			w.admitTicker.Stop()
			return
		case <-w.admitTicker.C:
			w.admitWaiting()
		}
	}
}

// Shutdown halts the admission loop.
func (w *WorldManager) Shutdown() {
	w.stop <- true
}

// Join queues a user for admission. Arrival time is the queue score,
// so admission order is join order.
func (w *WorldManager) Join(ctx context.Context, userID uuid.UUID) error {
	w.RLock()
	_, placed := w.schedulers[userID]
	w.RUnlock()
	if placed {
		return ErrAlreadyInWorld
	}

	score := float64(time.Now().UnixNano())
	if err := w.joinQueue.Enqueue(ctx, joinQueueKey, score, userID.String()); err != nil {
		return err
	}
	w.logger.Printf("%s[INFO]%s queued user for world admission: %s", config.LogInfoColor, config.LogColorReset, userID)
	return nil
}

// admitWaiting drains the join queue into free world slots.
func (w *WorldManager) admitWaiting() {
	w.RLock()
	free := w.capacity - len(w.schedulers)
	w.RUnlock()
	if free <= 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultAdmitEvery)
	defer cancel()

	members, err := w.joinQueue.DequeTops(ctx, joinQueueKey, int64(free))
	if err != nil {
		w.logger.Printf("%s[ERROR]%s draining join queue: %s", config.LogErrorColor, config.LogColorReset, err)
		return
	}

	for _, member := range members {
		userID, err := uuid.Parse(member)
		if err != nil {
			w.logger.Printf("%s[ERROR]%s invalid member in join queue: %q", config.LogErrorColor, config.LogColorReset, member)
			continue
		}
		if err := w.admit(userID); err != nil {
			w.logger.Printf("%s[ERROR]%s admitting user %s: %s", config.LogErrorColor, config.LogColorReset, userID, err)
		}
	}
}

// admit places a new agent for the user on a free spawn tile.
func (w *WorldManager) admit(userID uuid.UUID) error {
	w.Lock()
	defer w.Unlock()
	if _, exists := w.schedulers[userID]; exists {
		return ErrAlreadyInWorld
	}
	if len(w.schedulers) >= w.capacity {
		return ErrWorldFull
	}

	agent := game.NewAgent(userID, w.stepDelay)
	sched := game.NewScheduler(agent, w.grid, w.handleEvent)

	spawn, ok := w.findSpawnTile()
	if !ok {
		return ErrWorldFull
	}
	if err := sched.Place(spawn); err != nil {
		return err
	}

	w.schedulers[userID] = sched
	w.logger.Printf("%s[INFO]%s placed agent for user %s at %s", config.LogInfoColor, config.LogColorReset, userID, spawn)
	return nil
}

// findSpawnTile scans for the first walkable tile in row order.
func (w *WorldManager) findSpawnTile() (game.Position, bool) {
	for y := 0; y < w.grid.Height(); y++ {
		for x := 0; x < w.grid.Width(); x++ {
			if w.grid.IsWalkable(x, y) {
				return game.Position{X: x, Y: y}, true
			}
		}
	}
	return game.Position{}, false
}

// Leave removes the user's agent and frees its tile.
func (w *WorldManager) Leave(userID uuid.UUID) error {
	w.Lock()
	defer w.Unlock()
	sched, ok := w.schedulers[userID]
	if !ok {
		return game.ErrNotPlaced
	}
	sched.Remove()
	delete(w.schedulers, userID)
	w.logger.Printf("%s[INFO]%s removed agent for user %s", config.LogInfoColor, config.LogColorReset, userID)
	return nil
}

// EnqueueDestination appends a destination to the agent's queue.
func (w *WorldManager) EnqueueDestination(agentID uuid.UUID, x, y int) error {
	sched, err := w.schedulerFor(agentID)
	if err != nil {
		return err
	}
	return sched.Enqueue(game.Position{X: x, Y: y})
}

// PreemptTo replaces the agent's queue with a priority destination.
func (w *WorldManager) PreemptTo(agentID uuid.UUID, x, y int) error {
	sched, err := w.schedulerFor(agentID)
	if err != nil {
		return err
	}
	return sched.Preempt(game.Position{X: x, Y: y})
}

// Stop clears the agent's queue and halts it.
func (w *WorldManager) Stop(agentID uuid.UUID) error {
	sched, err := w.schedulerFor(agentID)
	if err != nil {
		return err
	}
	return sched.StopAll()
}

// AgentState returns position, moving flag and pending destinations.
func (w *WorldManager) AgentState(agentID uuid.UUID) (i.AgentState, error) {
	sched, err := w.schedulerFor(agentID)
	if err != nil {
		return i.AgentState{}, err
	}
	return i.AgentState{
		Position: sched.Position(),
		Moving:   sched.IsMoving(),
		Pending:  sched.Pending(),
	}, nil
}

// Snapshot returns the terrain and all agent positions.
func (w *WorldManager) Snapshot() i.WorldSnapshot {
	w.RLock()
	defer w.RUnlock()
	agents := make(map[uuid.UUID]game.Position, len(w.schedulers))
	for id, sched := range w.schedulers {
		agents[id] = sched.Position()
	}
	return i.WorldSnapshot{
		Width:  w.grid.Width(),
		Height: w.grid.Height(),
		Tiles:  w.grid.Snapshot(),
		Agents: agents,
	}
}

// PaintTile rewrites the terrain of one tile.
func (w *WorldManager) PaintTile(x, y int, t game.TileType) error {
	return w.grid.SetTileType(x, y, t)
}

func (w *WorldManager) schedulerFor(agentID uuid.UUID) (*game.Scheduler, error) {
	w.RLock()
	defer w.RUnlock()
	sched, ok := w.schedulers[agentID]
	if !ok {
		return nil, game.ErrNotPlaced
	}
	return sched, nil
}

// handleEvent fans scheduler notifications out to rendering clients.
func (w *WorldManager) handleEvent(e game.Event) {
	if w.broadcaster != nil {
		w.broadcaster.Broadcast(e)
	}
}
