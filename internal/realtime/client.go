package realtime

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 512
	sendBufferSize = 16
)

// joinRequest is the only message clients send after connecting
type joinRequest struct {
	Action string `json:"action"`
	Room   string `json:"room"`
	ID     int64  `json:"id"`
}

// Client is one websocket subscriber. Each connection gets a read pump that
// handles join requests and a write pump that drains the send buffer.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID int64
}

// NewClient wraps an upgraded connection for the given authenticated user
func NewClient(hub *Hub, conn *websocket.Conn, userID int64) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		userID: userID,
	}
}

// Serve starts the pumps and blocks until the connection closes
func (c *Client) Serve() {
	go c.writePump()
	c.readPump()
}

// readPump consumes join requests until the connection drops. Any read
// error, including close, tears the client down.
func (c *Client) readPump() {
	defer func() {
		c.hub.Leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("realtime: read error for user %d: %v", c.userID, err)
			}
			return
		}

		var req joinRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			log.Printf("realtime: bad message from user %d: %v", c.userID, err)
			continue
		}
		if req.Action == "join" {
			c.handleJoin(req)
		}
	}
}

// handleJoin subscribes the client to the requested room after verifying
// the user may see it. List rooms are keyed by list ID but guarded by the
// owning family, which the caller encodes in the request.
func (c *Client) handleJoin(req joinRequest) {
	switch req.Room {
	case "family":
		ok, err := c.hub.membership.IsFamilyMember(c.userID, req.ID)
		if err != nil {
			log.Printf("realtime: membership check failed for user %d: %v", c.userID, err)
			return
		}
		if !ok {
			log.Printf("realtime: user %d denied join to family %d", c.userID, req.ID)
			return
		}
		c.hub.Join(RoomFamily(req.ID), c)
	case "list":
		familyID, err := c.hub.listFamily(req.ID)
		if err != nil {
			log.Printf("realtime: list lookup failed for user %d: %v", c.userID, err)
			return
		}
		ok, err := c.hub.membership.IsFamilyMember(c.userID, familyID)
		if err != nil {
			log.Printf("realtime: membership check failed for user %d: %v", c.userID, err)
			return
		}
		if !ok {
			log.Printf("realtime: user %d denied join to list %d", c.userID, req.ID)
			return
		}
		c.hub.Join(RoomList(req.ID), c)
	default:
		log.Printf("realtime: user %d requested unknown room kind %q", c.userID, req.Room)
	}
}

// writePump drains the send buffer to the connection and keeps it alive
// with pings
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
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
