// Package realtime streams movement events to rendering clients over
// WebSocket.
package realtime

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/gridwalk/gridwalk-api/config"
	"github.com/gridwalk/gridwalk-api/game"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans movement events out to every connected WebSocket client.
// It also acts as a controller so the upgrade route registers like any
// other endpoint.
type Hub struct {
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
}

// NewHub creates a Hub. Call Run in its own goroutine before serving.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, sendBufferSize),
	}
}

// Run owns the client set. All membership changes and fan-out happen
// on this goroutine, so no locking is needed.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case message := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					// Slow client, drop it rather than block fan-out.
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// Broadcast queues one event for every connected client. It is called
// from scheduler goroutines and never blocks.
func (h *Hub) Broadcast(e game.Event) {
	message, err := json.Marshal(e)
	if err != nil {
		log.Printf("%s[ERROR]%s encoding event: %v", config.LogErrorColor, config.LogColorReset, err)
		return
	}
	select {
	case h.broadcast <- message:
	default:
		log.Printf("%s[ERROR]%s event stream saturated, dropping %s", config.LogErrorColor, config.LogColorReset, e.Type)
	}
}

// RegisterPublic registers the WebSocket upgrade route.
func (h *Hub) RegisterPublic(route *gin.RouterGroup) {
	route.GET("/world/events", h.serveWS)
}

// RegisterProtected registers protected routes.
func (h *Hub) RegisterProtected(route *gin.RouterGroup) {}

// serveWS upgrades the HTTP request and attaches the client to the hub.
func (h *Hub) serveWS(ctx *gin.Context) {
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Printf("%s[ERROR]%s upgrading event socket: %v", config.LogErrorColor, config.LogColorReset, err)
		return
	}

	c := newClient(h, conn)
	h.register <- c

	go c.writePump()
	go c.readPump()
}
