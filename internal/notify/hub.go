package notify

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/savegress/plantpulse/pkg/models"
)

// MessageType constants for WebSocket messages
const (
	TypeSubscribe    = "subscribe"
	TypeUnsubscribe  = "unsubscribe"
	TypeNotification = "notification"
	TypeError        = "error"
	TypePong         = "pong"
)

// Channel prefixes. A client may sit in one user channel and any number
// of role channels.
const (
	channelUserPrefix = "user:"
	channelRolePrefix = "role:"
)

// Message represents a WebSocket message
type Message struct {
	Type      string          `json:"type"`
	Channel   string          `json:"channel,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Error     string          `json:"error,omitempty"`
}

// Client represents a connected WebSocket client
type Client struct {
	ID            string
	conn          *websocket.Conn
	hub           *Hub
	send          chan []byte
	subscriptions map[string]bool
	mu            sync.RWMutex
}

// Hub manages WebSocket connections and channel broadcasting
type Hub struct {
	clients    map[*Client]bool
	channels   map[string]map[*Client]bool // channel -> clients
	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastMessage
	mu         sync.RWMutex
	stopCh     chan struct{}
}

type broadcastMessage struct {
	channel string
	message *Message
}

// Ensure Hub satisfies the mailbox push contract
var _ Pusher = (*Hub)(nil)

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		channels:   make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *broadcastMessage, 256),
		stopCh:     make(chan struct{}),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case <-h.stopCh:
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.broadcastToChannel(msg)
		}
	}
}

// Stop stops the hub and closes all connections
func (h *Hub) Stop() {
	close(h.stopCh)
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		client.conn.Close()
	}
	h.clients = make(map[*Client]bool)
	h.channels = make(map[string]map[*Client]bool)
}

// Register queues a client for registration
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// PushToUser delivers a notification to the user's channel. At most
// once: nothing is queued for users without a live connection.
func (h *Hub) PushToUser(userID string, n *models.Notification) {
	data, _ := json.Marshal(n)
	h.publish(channelUserPrefix+userID, &Message{
		Type: TypeNotification,
		Data: data,
	})
}

// BroadcastToRole delivers a notification to every client subscribed to
// the role channel. Pure push: no mailbox entry is written, so clients
// connecting later never see it.
func (h *Hub) BroadcastToRole(role string, n *models.Notification) {
	data, _ := json.Marshal(n)
	h.publish(channelRolePrefix+role, &Message{
		Type: TypeNotification,
		Data: data,
	})
}

func (h *Hub) publish(channel string, msg *Message) {
	msg.Channel = channel
	msg.Timestamp = time.Now().UTC()
	select {
	case h.broadcast <- &broadcastMessage{channel: channel, message: msg}:
	case <-h.stopCh:
	}
}

// removeClient removes a client from all channels
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)

		for channel := range client.subscriptions {
			if clients, ok := h.channels[channel]; ok {
				delete(clients, client)
				if len(clients) == 0 {
					delete(h.channels, channel)
				}
			}
		}
	}
}

// broadcastToChannel sends a message to all clients in a channel
func (h *Hub) broadcastToChannel(msg *broadcastMessage) {
	h.mu.RLock()
	clients, ok := h.channels[msg.channel]
	h.mu.RUnlock()

	if !ok {
		return
	}

	data, err := json.Marshal(msg.message)
	if err != nil {
		log.Printf("Error marshaling broadcast message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range clients {
		select {
		case client.send <- data:
		default:
			// Client buffer full, skip
		}
	}
}

// Subscribe subscribes a client to a channel
func (h *Hub) Subscribe(client *Client, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.channels[channel]; !ok {
		h.channels[channel] = make(map[*Client]bool)
	}
	h.channels[channel][client] = true

	client.mu.Lock()
	client.subscriptions[channel] = true
	client.mu.Unlock()
}

// SubscribeUser joins the client to a per-user channel
func (h *Hub) SubscribeUser(client *Client, userID string) {
	h.Subscribe(client, channelUserPrefix+userID)
}

// SubscribeRole joins the client to a per-role channel
func (h *Hub) SubscribeRole(client *Client, role string) {
	h.Subscribe(client, channelRolePrefix+role)
}

// Unsubscribe removes a client from a channel
func (h *Hub) Unsubscribe(client *Client, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.channels[channel]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.channels, channel)
		}
	}

	client.mu.Lock()
	delete(client.subscriptions, channel)
	client.mu.Unlock()
}

// GetStats returns hub statistics
func (h *Hub) GetStats() map[string]interface{} {
	h.mu.RLock()
	defer h.mu.RUnlock()

	channelStats := make(map[string]int)
	for channel, clients := range h.channels {
		channelStats[channel] = len(clients)
	}

	return map[string]interface{}{
		"total_clients":   len(h.clients),
		"total_channels":  len(h.channels),
		"channel_clients": channelStats,
	}
}
