package ws

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"werewolf/internal/app"
	"werewolf/internal/domain"
)

// Handler upgrades HTTP requests to WebSocket command connections
type Handler struct {
	hub        *app.RoomHub
	registry   *Registry
	dispatcher *app.Dispatcher
	upgrader   websocket.Upgrader
	logger     *slog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *app.RoomHub, registry *Registry, dispatcher *app.Dispatcher, logger *slog.Logger) *Handler {
	return &Handler{
		hub:        hub,
		registry:   registry,
		dispatcher: dispatcher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Allow all origins for development
				return true
			},
		},
		logger: logger,
	}
}

// ServeHTTP handles WebSocket upgrade requests. `room` names the
// conversation the connection speaks for (it does not have to exist yet;
// /create opens it), `name` is the display name, and `player` resumes an
// existing identity.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("room")
	if roomID == "" {
		http.Error(w, "room is required", http.StatusBadRequest)
		return
	}

	name := r.URL.Query().Get("name")
	playerID := r.URL.Query().Get("player")
	isResume := playerID != ""
	if !isResume {
		playerID = uuid.New().String()
		if name == "" {
			http.Error(w, "name is required for new players", http.StatusBadRequest)
			return
		}
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := NewClient(conn, h.registry, h.dispatcher, roomID, playerID, name, h.logger)
	h.registry.Register(client)

	h.logger.Info("websocket connected",
		"roomID", roomID,
		"playerID", playerID,
		"isResume", isResume,
	)

	// A resuming player may carry an updated display name
	if isResume && name != "" {
		if session, err := h.hub.FindByPlayer(playerID); err == nil {
			session.RenamePlayer(playerID, name)
		}
	}

	client.Send(domain.NotifyPlayer(playerID, "Connected. Your player id: "+playerID+". Type /help for commands."))

	client.Run()
}
