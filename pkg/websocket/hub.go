// Package websocket implements the push-streaming half of the read-only
// HTTP/WebSocket surface: a hub of connected clients that receives one
// broadcast per scan and fans it out, dropping any client too slow to keep
// up rather than blocking the scan loop.
package websocket

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Hub maintains the set of connected clients and broadcasts a message to
// all of them. Registration, unregistration, and broadcast are all
// serialized through a single goroutine's channel loop so the client map
// is never read and mutated concurrently.
type Hub struct {
	logger *zap.Logger

	clientsMu sync.RWMutex
	clients   map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	done chan struct{}
}

// NewHub creates a Hub. Call Run in its own goroutine before registering
// clients.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:     logger,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
	}
}

// Run processes register/unregister/broadcast events until stop is closed.
func (h *Hub) Run(stop <-chan struct{}) {
	defer close(h.done)
	for {
		select {
		case <-stop:
			h.closeAll()
			return
		case c := <-h.register:
			h.addClient(c)
		case c := <-h.unregister:
			h.removeClient(c)
		case msg := <-h.broadcast:
			h.sendAll(msg)
		}
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) { h.register <- c }

// Unregister removes a client from the hub.
func (h *Hub) Unregister(c *Client) { h.unregister <- c }

// Broadcast marshals v as JSON and pushes it to every connected client.
// Marshal errors are logged and the broadcast is skipped; they never reach
// the scan loop that called this as a Subscriber callback.
func (h *Hub) Broadcast(v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("broadcast-marshal-failed", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warn("broadcast-channel-full-dropping-message")
	}
}

// ClientCount returns the number of currently connected clients.
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) addClient(c *Client) {
	h.clientsMu.Lock()
	h.clients[c] = true
	count := len(h.clients)
	h.clientsMu.Unlock()
	h.logger.Info("ws-client-connected", zap.Int("total", count))
}

func (h *Hub) removeClient(c *Client) {
	h.clientsMu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	count := len(h.clients)
	h.clientsMu.Unlock()
	h.logger.Info("ws-client-disconnected", zap.Int("total", count))
}

func (h *Hub) sendAll(msg []byte) {
	h.clientsMu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("ws-client-buffer-full-disconnecting")
			go h.Unregister(c)
		}
	}
}

func (h *Hub) closeAll() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}
