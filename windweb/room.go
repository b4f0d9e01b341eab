package windweb

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

type Room struct {
	// forward is a channel that holds incoming messages
	// that should be forwarded to the other clients.
	forward chan []byte
	// join is a channel for clients wishing to join the room.
	join chan *client
	// leave is a channel for clients wishing to leave the room.
	leave chan *client
	// clients holds all current clients in this room.
	clients map[*client]bool
	// done is closed when Run returns.
	done chan struct{}
}

// NewRoom makes a new room that is ready to go.
func NewRoom() *Room {
	return &Room{
		forward: make(chan []byte, messageBufferSize),
		join:    make(chan *client),
		leave:   make(chan *client),
		clients: make(map[*client]bool),
		done:    make(chan struct{}),
	}
}

// Run serves the room until ctx is done, then disconnects every client.
func (r *Room) Run(ctx context.Context) {
	defer close(r.done)
	for {
		select {
		case <-ctx.Done():
			for c := range r.clients {
				delete(r.clients, c)
				close(c.send)
			}
			return
		case c := <-r.join:
			r.clients[c] = true
			log.Println("WindWeb: New client joined")
		case c := <-r.leave:
			if r.clients[c] {
				delete(r.clients, c)
				close(c.send)
			}
			log.Println("WindWeb: Client left")
		case msg := <-r.forward:
			for c := range r.clients {
				select {
				case c.send <- msg:
				default:
					log.Println("WindWeb: Client too slow, dropping message")
				}
			}
		}
	}
}

// Forward queues msg for all clients without blocking. It reports false if the room
// is backed up or closed.
func (r *Room) Forward(msg []byte) bool {
	select {
	case <-r.done:
		return false
	default:
	}
	select {
	case r.forward <- msg:
		return true
	default:
		return false
	}
}

const (
	socketBufferSize  = 1024
	messageBufferSize = 10
)

var upgrader = &websocket.Upgrader{ReadBufferSize: socketBufferSize, WriteBufferSize: socketBufferSize}

func (r *Room) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	socket, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Println("WindWeb: ServeHTTP:", err)
		return
	}
	c := &client{
		socket: socket,
		send:   make(chan []byte, messageBufferSize),
		room:   r,
	}
	select {
	case r.join <- c:
	case <-r.done:
		socket.Close()
		return
	}
	defer func() {
		select {
		case r.leave <- c:
		case <-r.done:
		}
	}()
	go c.write()
	c.read()
}
