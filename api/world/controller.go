package worldapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gridwalk/gridwalk-api/api/identity"
	"github.com/gridwalk/gridwalk-api/game"
	"github.com/gridwalk/gridwalk-api/service"
	"github.com/gridwalk/gridwalk-api/service/i"
)

const joinTimeout = 2 * time.Second

// WorldController manages world membership, movement commands and
// terrain edits.
type WorldController struct {
	world i.WorldManager
}

// NewWorldController initializes a WorldController.
func NewWorldController(world i.WorldManager) (*WorldController, error) {
	if world == nil {
		return nil, errors.New("world controller requires a world manager")
	}
	return &WorldController{world: world}, nil
}

// RegisterPublic registers public routes.
func (wc *WorldController) RegisterPublic(route *gin.RouterGroup) {}

// RegisterProtected registers protected routes.
func (wc *WorldController) RegisterProtected(route *gin.RouterGroup) {
	world := route.Group("/world")
	{
		world.GET("/", wc.snapshot)
		world.POST("/join", wc.join)
		world.DELETE("/leave", wc.leave)
		world.POST("/tiles", wc.paintTile)
	}
	agents := route.Group("/agents")
	{
		agents.GET("/:ID", wc.agentState)
		agents.POST("/:ID/destinations", wc.enqueueDestination)
		agents.POST("/:ID/priority", wc.preemptTo)
		agents.DELETE("/:ID/destinations", wc.stop)
	}
}

// join queues the authenticated user for world admission.
func (wc *WorldController) join(ctx *gin.Context) {
	userID, ok := identity.UserIDFromContext(ctx)
	if !ok {
		ctx.Status(http.StatusUnauthorized)
		return
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, joinTimeout)
	defer cancel()
	if err := wc.world.Join(timeoutCtx, userID); err != nil {
		if errors.Is(err, service.ErrAlreadyInWorld) {
			ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while joining the world"})
		return
	}
	ctx.Status(http.StatusAccepted)
}

// leave removes the authenticated user's agent from the world.
func (wc *WorldController) leave(ctx *gin.Context) {
	userID, ok := identity.UserIDFromContext(ctx)
	if !ok {
		ctx.Status(http.StatusUnauthorized)
		return
	}

	if err := wc.world.Leave(userID); err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	ctx.Status(http.StatusNoContent)
}

// snapshot returns the terrain and agent positions for rendering.
func (wc *WorldController) snapshot(ctx *gin.Context) {
	snap := wc.world.Snapshot()
	agents := make(map[string]game.Position, len(snap.Agents))
	for id, pos := range snap.Agents {
		agents[id.String()] = pos
	}
	ctx.JSON(http.StatusOK, &WorldResponse{
		Width:  snap.Width,
		Height: snap.Height,
		Tiles:  snap.Tiles,
		Agents: agents,
	})
}

// paintTile rewrites the terrain of one tile.
func (wc *WorldController) paintTile(ctx *gin.Context) {
	var request TileRequest
	if err := ctx.ShouldBind(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tileType, err := parseTileType(request.Type)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := wc.world.PaintTile(*request.X, *request.Y, tileType); err != nil {
		wc.renderMovementError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// agentState reports position, moving flag and pending queue.
func (wc *WorldController) agentState(ctx *gin.Context) {
	agentID, ok := wc.ownAgentID(ctx)
	if !ok {
		return
	}

	state, err := wc.world.AgentState(agentID)
	if err != nil {
		wc.renderMovementError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, &AgentResponse{
		ID:       agentID.String(),
		Position: state.Position,
		Moving:   state.Moving,
		Pending:  state.Pending,
	})
}

// enqueueDestination appends a destination to the agent's queue.
func (wc *WorldController) enqueueDestination(ctx *gin.Context) {
	wc.movementCommand(ctx, wc.world.EnqueueDestination)
}

// preemptTo replaces the queue with a priority destination.
func (wc *WorldController) preemptTo(ctx *gin.Context) {
	wc.movementCommand(ctx, wc.world.PreemptTo)
}

// stop clears the agent's queue and halts it.
func (wc *WorldController) stop(ctx *gin.Context) {
	agentID, ok := wc.ownAgentID(ctx)
	if !ok {
		return
	}

	if err := wc.world.Stop(agentID); err != nil {
		wc.renderMovementError(ctx, err)
		return
	}
	ctx.Status(http.StatusAccepted)
}

// movementCommand binds a MoveRequest and applies it to the caller's
// own agent.
func (wc *WorldController) movementCommand(ctx *gin.Context, command func(uuid.UUID, int, int) error) {
	agentID, ok := wc.ownAgentID(ctx)
	if !ok {
		return
	}

	var request MoveRequest
	if err := ctx.ShouldBind(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := command(agentID, *request.X, *request.Y); err != nil {
		wc.renderMovementError(ctx, err)
		return
	}
	ctx.Status(http.StatusAccepted)
}

// ownAgentID parses the :ID parameter and verifies it belongs to the
// authenticated user. Movement commands only drive the caller's own
// agent.
func (wc *WorldController) ownAgentID(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := identity.UserIDFromContext(ctx)
	if !ok {
		ctx.Status(http.StatusUnauthorized)
		return uuid.Nil, false
	}

	agentID, err := uuid.Parse(ctx.Params.ByName("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid agent id"})
		return uuid.Nil, false
	}
	if agentID != userID {
		ctx.Status(http.StatusForbidden)
		return uuid.Nil, false
	}
	return agentID, true
}

func (wc *WorldController) renderMovementError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, game.ErrOutOfBounds):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, game.ErrNotPlaced):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
