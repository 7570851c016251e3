package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/dynbilliards/backend/internal/sim"
)

// Message is the envelope for everything sent over a run socket.
type Message struct {
	Type string      `json:"type"` // "snapshot" or "frame"
	Data interface{} `json:"data"`
}

// Hub maintains the set of renderer clients attached to each run.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool // run token -> clients
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]bool)}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[c.runToken]
	if !ok {
		room = make(map[*Client]bool)
		h.rooms[c.runToken] = room
	}
	room[c] = true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.rooms[c.runToken]; ok {
		if room[c] {
			delete(room, c)
			close(c.send)
		}
		if len(room) == 0 {
			delete(h.rooms, c.runToken)
		}
	}
}

// BroadcastFrame pushes one tick's ball state to every renderer attached to
// the run. Slow clients are skipped, never waited on: the tick loop must not
// block on I/O.
func (h *Hub) BroadcastFrame(frame sim.Frame) {
	data, err := json.Marshal(Message{Type: "frame", Data: frame})
	if err != nil {
		log.Printf("[WS] Error marshaling frame: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[frame.Token] {
		select {
		case client.send <- data:
		default:
			log.Printf("[WS] Send buffer full for run %s, dropping frame", frame.Token)
		}
	}
}
