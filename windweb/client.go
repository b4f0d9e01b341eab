package windweb

import (
	"github.com/gorilla/websocket"
)

// client is a single websocket connection in a room.
type client struct {
	socket *websocket.Conn
	send   chan []byte
	room   *Room
}

// read forwards everything the client sends to the room, until the socket fails.
func (c *client) read() {
	defer c.socket.Close()
	for {
		_, msg, err := c.socket.ReadMessage()
		if err != nil {
			return
		}
		c.room.Forward(msg)
	}
}

func (c *client) write() {
	defer c.socket.Close()
	for msg := range c.send {
		if err := c.socket.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}
