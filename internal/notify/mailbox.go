// Package notify provides in-memory notifications with best-effort
// real-time push over WebSocket
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/savegress/plantpulse/pkg/models"
)

// Pusher delivers a notification to any live connection for a user.
// Delivery is fire-and-forget: a disconnected user simply misses the
// push and reads the mailbox later.
type Pusher interface {
	PushToUser(userID string, n *models.Notification)
}

// Payload holds the caller-supplied fields of a notification
type Payload struct {
	Type     models.NotificationType `json:"type"`
	Title    string                  `json:"title"`
	Message  string                  `json:"message"`
	Priority models.InsightPriority  `json:"priority"`
	Link     string                  `json:"link,omitempty"`
}

// Mailbox owns the per-user notification lists. State is process-local
// and lost on restart; there is no eviction, so long-lived users
// accumulate entries until restart.
type Mailbox struct {
	mu     sync.RWMutex
	byUser map[string][]*models.Notification
	pusher Pusher
}

// NewMailbox creates an empty mailbox. pusher may be nil.
func NewMailbox(pusher Pusher) *Mailbox {
	return &Mailbox{
		byUser: make(map[string][]*models.Notification),
		pusher: pusher,
	}
}

// Send stamps and stores a notification for the user, then pushes it to
// any live connection.
func (m *Mailbox) Send(userID string, p Payload) *models.Notification {
	n := &models.Notification{
		ID:        uuid.New().String(),
		Type:      p.Type,
		Title:     p.Title,
		Message:   p.Message,
		Priority:  p.Priority,
		Timestamp: time.Now().UTC(),
		UserID:    userID,
		Link:      p.Link,
		Read:      false,
	}

	m.mu.Lock()
	m.byUser[userID] = append(m.byUser[userID], n)
	m.mu.Unlock()

	if m.pusher != nil {
		m.pusher.PushToUser(userID, n)
	}

	return n
}

// List returns the user's notifications in insertion order. Unknown
// users get an empty list, never an error.
func (m *Mailbox) List(userID string, unreadOnly bool) []*models.Notification {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored := m.byUser[userID]
	out := make([]*models.Notification, 0, len(stored))
	for _, n := range stored {
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out
}

// MarkRead flags a notification as read. Marking an unknown or
// already-read id is a no-op, matching an at-least-once mark contract.
func (m *Mailbox) MarkRead(userID, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, n := range m.byUser[userID] {
		if n.ID == id {
			n.Read = true
			return
		}
	}
}

// UnreadCount returns the number of unread notifications for a user
func (m *Mailbox) UnreadCount(userID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int
	for _, n := range m.byUser[userID] {
		if !n.Read {
			count++
		}
	}
	return count
}
