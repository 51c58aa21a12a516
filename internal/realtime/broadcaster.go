package realtime

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

const channelName = "broadcast"

// Event is the envelope every broadcast message travels in.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
	At      string `json:"at"`
}

// Broadcaster publishes events. With Redis configured they round-trip
// through the pub/sub channel so sibling processes relay them too;
// otherwise they go straight to the local hub.
type Broadcaster struct {
	hub *Hub
	rdb *redis.Client
}

func NewBroadcaster(hub *Hub, rdb *redis.Client) *Broadcaster {
	return &Broadcaster{hub: hub, rdb: rdb}
}

// Publish sends the event. Failures are logged, never propagated; a dead
// broker must not break the operation that triggered the event.
func (b *Broadcaster) Publish(ctx context.Context, eventType string, payload any) {
	data, err := json.Marshal(Event{
		Type:    eventType,
		Payload: payload,
		At:      time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		log.Printf("realtime: marshal event %q: %v", eventType, err)
		return
	}

	if b.rdb == nil {
		b.hub.Broadcast(data)
		return
	}
	if err := b.rdb.Publish(ctx, channelName, string(data)).Err(); err != nil {
		log.Printf("realtime: publish %q: %v", eventType, err)
		b.hub.Broadcast(data)
	}
}

// RunSubscriber pumps the Redis channel into the hub until ctx is done.
// No-op without Redis.
func (b *Broadcaster) RunSubscriber(ctx context.Context) {
	if b.rdb == nil {
		return
	}

	sub := b.rdb.Subscribe(ctx, channelName)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			b.hub.Broadcast([]byte(msg.Payload))
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServeWS upgrades the request and attaches the connection to the hub.
func ServeWS(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("realtime: ws upgrade: %v", err)
		return
	}

	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 256)}
	if !hub.add(client) {
		return
	}

	welcome, err := json.Marshal(Event{
		Type: "welcome",
		At:   time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err == nil {
		client.send <- welcome
	}

	go client.writePump()
	go client.readPump()
}
