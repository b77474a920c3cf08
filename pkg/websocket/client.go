package websocket

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 32
)

// SnapshotProvider answers the get_opportunities/get_stats commands a
// connected client may send. The httpserver package's handlers type
// satisfies it.
type SnapshotProvider interface {
	CurrentMessage() any
	StatsMessage() any
}

// Client wraps one connected WebSocket client: a send buffer drained by
// WritePump, and a ReadPump that dispatches the small command set the
// surface accepts.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	provider SnapshotProvider
	logger   *zap.Logger
}

// NewClient wraps conn for registration with hub.
func NewClient(hub *Hub, conn *websocket.Conn, provider SnapshotProvider, logger *zap.Logger) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		provider: provider,
		logger:   logger,
	}
}

// Send marshals v as JSON and queues it, e.g. the initial "connected" frame.
// The message is dropped if the send buffer is full.
func (c *Client) Send(v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		c.logger.Error("client-send-marshal-failed", zap.Error(err))
		return
	}
	select {
	case c.send <- payload:
	default:
		c.logger.Warn("client-send-buffer-full-dropping")
	}
}

type inboundCommand struct {
	Type string `json:"type"`
}

// ReadPump reads commands from the client until the connection closes or
// errors. It must run in its own goroutine; it returns once the socket is
// no longer usable.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var cmd inboundCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			continue
		}
		c.dispatch(cmd.Type)
	}
}

func (c *Client) dispatch(cmdType string) {
	switch cmdType {
	case "ping":
		c.Send(map[string]string{"type": "pong"})
	case "get_opportunities":
		c.Send(c.provider.CurrentMessage())
	case "get_stats":
		c.Send(c.provider.StatsMessage())
	default:
		c.logger.Debug("ws-unknown-command", zap.String("type", cmdType))
	}
}

// WritePump drains the send buffer to the socket and pings periodically.
// It must run in its own goroutine; it returns once the send channel is
// closed (by the hub, on unregister) or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
