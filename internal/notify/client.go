package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	readLimit    = 512
	readTimeout  = 60 * time.Second
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
)

// NewClient creates a new client for a WebSocket connection
func NewClient(hub *Hub, conn *websocket.Conn, id string) *Client {
	return &Client{
		ID:            id,
		conn:          conn,
		hub:           hub,
		send:          make(chan []byte, 256),
		subscriptions: make(map[string]bool),
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(readLimit)
	c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, message, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("WebSocket error: %v", err)
				}
				return
			}

			c.handleMessage(message)
		}
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes incoming WebSocket messages. Clients may join
// or leave user/role channels after connecting.
func (c *Client) handleMessage(data []byte) {
	var msg struct {
		Type   string `json:"type"`
		UserID string `json:"userId"`
		Role   string `json:"role"`
	}

	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError("invalid message format")
		return
	}

	switch msg.Type {
	case TypeSubscribe:
		if msg.UserID != "" {
			c.hub.SubscribeUser(c, msg.UserID)
		}
		if msg.Role != "" {
			c.hub.SubscribeRole(c, msg.Role)
		}
		if msg.UserID == "" && msg.Role == "" {
			c.sendError("subscribe requires userId or role")
		}

	case TypeUnsubscribe:
		if msg.UserID != "" {
			c.hub.Unsubscribe(c, channelUserPrefix+msg.UserID)
		}
		if msg.Role != "" {
			c.hub.Unsubscribe(c, channelRolePrefix+msg.Role)
		}

	case "ping":
		c.sendPong()

	default:
		c.sendError("unknown message type")
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(errMsg string) {
	msg := &Message{
		Type:      TypeError,
		Error:     errMsg,
		Timestamp: time.Now().UTC(),
	}
	data, _ := json.Marshal(msg)
	select {
	case c.send <- data:
	default:
	}
}

// sendPong sends a pong response
func (c *Client) sendPong() {
	msg := &Message{
		Type:      TypePong,
		Timestamp: time.Now().UTC(),
	}
	data, _ := json.Marshal(msg)
	select {
	case c.send <- data:
	default:
	}
}
