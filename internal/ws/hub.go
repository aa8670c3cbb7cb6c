package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Hub is a broadcast-only fanout: the game loop pushes events (level-ups,
// big exchanges) and every connected client receives them. There is no
// client-to-client messaging.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	log.Printf("Hub.register: player=%d (clients=%d)", c.PlayerID, h.ClientCount())
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.Send)
	}
	h.mu.Unlock()
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues the event for every connected client. Slow clients are
// dropped rather than allowed to stall the rest.
func (h *Hub) Broadcast(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Hub.Broadcast: marshal error: %v", err)
		return
	}

	h.mu.RLock()
	stale := make([]*Client, 0)
	for c := range h.clients {
		select {
		case c.Send <- data:
		default:
			stale = append(stale, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range stale {
		log.Printf("Hub.Broadcast: dropping slow client player=%d", c.PlayerID)
		h.unregister(c)
	}
}

func (h *Hub) BroadcastLevelUp(playerID int64, level int) {
	h.Broadcast(Event{
		Type:      EventLevelUp,
		PlayerID:  playerID,
		Level:     level,
		Timestamp: time.Now().UTC(),
	})
}
