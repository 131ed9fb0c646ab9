// Package devserver streams compile diagnostics to connected browser tabs
// over a websocket through a single broadcast channel: every client gets
// every diagnostic, there is exactly one "room".
package devserver

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Event is one compile outcome pushed to every connected dev client.
type Event struct {
	OK       bool   `json:"ok"`
	Message  string `json:"message"`
	Bytecode string `json:"bytecode,omitempty"`
}

// Hub broadcasts Events to every connected websocket client.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	events  chan Event
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		events:  make(chan Event, 16),
	}
}

// Run drains h.events and fans each one out to every connected client
// until stop is closed.
func (h *Hub) Run(stop <-chan struct{}) {
	for {
		select {
		case ev := <-h.events:
			h.broadcast(ev)
		case <-stop:
			return
		}
	}
}

// Broadcast enqueues ev for delivery to every connected client.
func (h *Hub) Broadcast(ev Event) {
	select {
	case h.events <- ev:
	default:
		log.Println("devserver: event buffer full, dropping event")
	}
}

func (h *Hub) broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteJSON(ev); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// ServeWS upgrades r to a websocket and registers it with h until the
// client disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("devserver: upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// eventJSON is exposed for tests that assert on wire format without
// standing up a real websocket round-trip.
func eventJSON(ev Event) ([]byte, error) {
	return json.Marshal(ev)
}
