package api

import (
	"context"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/savegress/plantpulse/internal/notify"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin checks are delegated to the CORS layer
		return true
	},
}

// serveWebSocket upgrades the connection and attaches the client to the
// notification hub. user_id and role query params pre-subscribe the
// client; both can also be changed later with subscribe messages.
func (s *Server) serveWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}

	client := notify.NewClient(s.hub, conn, uuid.New().String())
	s.hub.Register(client)

	if userID := r.URL.Query().Get("user_id"); userID != "" {
		s.hub.SubscribeUser(client, userID)
	}
	if role := r.URL.Query().Get("role"); role != "" {
		s.hub.SubscribeRole(client, role)
	}

	// The pumps outlive the HTTP request; the hub owns teardown
	ctx := context.Background()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
