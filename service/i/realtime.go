package i

import "github.com/gridwalk/gridwalk-api/game"

// Broadcaster pushes scheduler notifications to connected rendering
// clients. Implementations must not block the caller.
type Broadcaster interface {
	Broadcast(event game.Event)
}
