package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"homehub/internal/realtime"
	"homehub/internal/security"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The handshake is authenticated by the ticket, not the Origin header;
	// room joins are membership-checked besides.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler hands authenticated browsers over to the realtime hub
type WSHandler struct {
	hub          *realtime.Hub
	ticketSecret string
}

// NewWSHandler creates a new websocket handler
func NewWSHandler(hub *realtime.Hub, ticketSecret string) *WSHandler {
	return &WSHandler{hub: hub, ticketSecret: ticketSecret}
}

// Ticket mints a short-lived connection ticket for the logged-in user.
// Runs behind RequireAuth.
func (h *WSHandler) Ticket(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	ticket, err := security.MintTicket(h.ticketSecret, user.ID)
	if err != nil {
		respondServiceError(w, "Failed to mint ticket", err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{"ticket": ticket})
}

// Connect upgrades the connection after verifying the presented ticket and
// serves it until it closes
func (h *WSHandler) Connect(w http.ResponseWriter, r *http.Request) {
	userID, err := security.VerifyTicket(h.ticketSecret, r.URL.Query().Get("ticket"))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid ticket")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed for user %d: %v", userID, err)
		return
	}

	realtime.NewClient(h.hub, conn, userID).Serve()
}
