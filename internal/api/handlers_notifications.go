package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/savegress/plantpulse/pkg/models"
)

// Notification handlers

func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"

	notifications := s.mailbox.List(userID, unreadOnly)
	respondData(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"unreadCount":   s.mailbox.UnreadCount(userID),
	})
}

func (s *Server) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		var req struct {
			UserID string `json:"userId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			userID = req.UserID
		}
	}
	if userID == "" {
		respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	// Marking an unknown or already-read notification is a no-op
	s.mailbox.MarkRead(userID, id)
	respondData(w, http.StatusOK, map[string]string{"status": "read"})
}

func (s *Server) broadcastNotification(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Role     string                  `json:"role"`
		Type     models.NotificationType `json:"type"`
		Title    string                  `json:"title"`
		Message  string                  `json:"message"`
		Priority models.InsightPriority  `json:"priority"`
		Link     string                  `json:"link,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Role == "" {
		respondError(w, http.StatusBadRequest, "role is required")
		return
	}
	if req.Type == "" {
		req.Type = models.NotificationTypeInfo
	}

	// Role broadcasts are push-only; nothing is stored in any mailbox
	n := &models.Notification{
		ID:        uuid.New().String(),
		Type:      req.Type,
		Title:     req.Title,
		Message:   req.Message,
		Priority:  req.Priority,
		Timestamp: time.Now().UTC(),
		Link:      req.Link,
	}
	s.hub.BroadcastToRole(req.Role, n)

	respondData(w, http.StatusAccepted, n)
}

func (s *Server) getNotificationStats(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, s.hub.GetStats())
}
