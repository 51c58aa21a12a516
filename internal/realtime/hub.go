// Package realtime fans playback and library events out to connected
// websocket clients. Events flow through a Redis channel when Redis is
// configured so every process sees them; without Redis they go straight to
// the local hub.
package realtime

import "context"

// Hub owns the client set and serializes registration and fan-out. Once Run
// returns, Broadcast and the register/unregister paths become no-ops so no
// publisher is left blocked against a stopped loop.
type Hub struct {
	clients map[*Client]bool

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// slow consumer, cut it loose
					h.drop(client)
				}
			}
		}
	}
}

// Broadcast queues a message for every connected client. Dropped once the
// hub has stopped.
func (h *Hub) Broadcast(message []byte) {
	select {
	case <-h.done:
	case h.broadcast <- message:
	}
}

// add registers the client, reporting false when the hub already stopped.
func (h *Hub) add(client *Client) bool {
	select {
	case <-h.done:
		_ = client.conn.Close()
		return false
	case h.register <- client:
		return true
	}
}

func (h *Hub) remove(client *Client) {
	select {
	case <-h.done:
	case h.unregister <- client:
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.send)
	_ = client.conn.Close()
}
