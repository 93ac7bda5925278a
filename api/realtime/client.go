package realtime

import (
	"log"

	"github.com/gorilla/websocket"
	"github.com/gridwalk/gridwalk-api/config"
)

const sendBufferSize = 256

// client wraps one WebSocket connection with a buffered outbound
// channel so slow readers never stall the hub.
type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func newClient(hub *Hub, conn *websocket.Conn) *client {
	return &client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

// readPump drains inbound frames until the peer disconnects. Clients
// only listen on this socket, so frames are discarded.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("%s[ERROR]%s reading from event socket: %v", config.LogErrorColor, config.LogColorReset, err)
			}
			return
		}
	}
}

// writePump forwards queued messages to the peer.
func (c *client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
