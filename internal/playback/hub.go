package playback

import (
	"context"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Hub fans replay frames out to every websocket subscribed to a flight.
// With a redis client attached, frames also cross instances via pub/sub.
type Hub struct {
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	FlightID string
	Send     chan []byte
	quit     chan struct{}
}

// Done is closed when the client is unregistered.
func (c *Client) Done() <-chan struct{} {
	return c.quit
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(flightID string) *Client {
	client := &Client{
		FlightID: flightID,
		Send:     make(chan []byte, 64),
		quit:     make(chan struct{}),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[flightID] == nil {
		h.clients[flightID] = map[*Client]struct{}{}
	}
	h.clients[flightID][client] = struct{}{}
	return client
}

// Unregister removes the client and closes its Done channel. Send stays
// open; a runner broadcasting mid-removal must never hit a closed channel.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	flightClients, ok := h.clients[client.FlightID]
	if !ok {
		return
	}
	if _, ok := flightClients[client]; !ok {
		return
	}
	delete(flightClients, client)
	if len(flightClients) == 0 {
		delete(h.clients, client.FlightID)
	}
	close(client.quit)
}

func (h *Hub) Broadcast(flightID string, payload []byte) {
	h.deliver(flightID, payload)

	if h.redis != nil {
		err := h.redis.Publish(context.Background(), redisChannel(flightID), payload).Err()
		if err != nil {
			log.Printf("redis publish error: %v", err)
		}
	}
}

// deliver holds the read lock for the whole scan so Unregister cannot
// mutate the client set mid-iteration. Sends never block.
func (h *Hub) deliver(flightID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[flightID] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.PSubscribe(ctx, "playback:*:frames")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.deliver(flightIDFromChannel(msg.Channel), []byte(msg.Payload))
	}
}

func redisChannel(flightID string) string {
	return "playback:" + flightID + ":frames"
}

func flightIDFromChannel(ch string) string {
	// playback:{flight}:frames
	const prefix = "playback:"
	const suffix = ":frames"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
