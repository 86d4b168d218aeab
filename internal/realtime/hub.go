package realtime

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"homehub/internal/models"
)

// queueSize bounds the dispatch queue; beyond it Broadcast drops rather
// than blocking request handlers
const queueSize = 256

// MembershipChecker verifies that a user currently belongs to a family.
// Room joins re-check membership at join time so a revoked member cannot
// keep receiving a family's traffic through an old page.
type MembershipChecker interface {
	IsFamilyMember(userID, familyID int64) (bool, error)
}

// ListResolver maps a shopping list to its record, so list-room joins can
// be guarded by the owning family's membership
type ListResolver interface {
	GetListByID(listID int64) (*models.ShoppingList, error)
}

// Message is one envelope queued for delivery to a room
type Message struct {
	Room    string
	Payload []byte
}

// Hub routes messages to room subscribers. Delivery is at-most-once: a
// subscriber whose send buffer is full misses the message, and clients are
// expected to resynchronize from the API on reconnect. A single dispatch
// goroutine drains the queue, which keeps per-room delivery order identical
// to broadcast order.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool

	queue chan Message
	done  chan struct{}

	membership MembershipChecker
	lists      ListResolver
	backplane  *Backplane
}

// NewHub creates a hub. Call Run in a goroutine to start dispatch.
func NewHub(membership MembershipChecker, lists ListResolver) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		queue:      make(chan Message, queueSize),
		done:       make(chan struct{}),
		membership: membership,
		lists:      lists,
	}
}

// listFamily resolves the family owning a list
func (h *Hub) listFamily(listID int64) (int64, error) {
	list, err := h.lists.GetListByID(listID)
	if err != nil {
		return 0, err
	}
	if list == nil {
		return 0, fmt.Errorf("list %d not found", listID)
	}
	return list.FamilyID, nil
}

// SetBackplane routes broadcasts through a pub/sub backplane so every
// process serving the family sees them. Must be called before Run.
func (h *Hub) SetBackplane(b *Backplane) {
	h.backplane = b
}

// Run dispatches queued messages until Stop is called
func (h *Hub) Run() {
	for {
		select {
		case msg := <-h.queue:
			h.deliver(msg)
		case <-h.done:
			return
		}
	}
}

// Stop shuts the dispatch loop down
func (h *Hub) Stop() {
	close(h.done)
}

// Join subscribes a client to a room
func (h *Hub) Join(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms[room]
	if !ok {
		clients = make(map[*Client]bool)
		h.rooms[room] = clients
	}
	clients[c] = true
}

// Leave unsubscribes a client from all its rooms
func (h *Hub) Leave(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room, clients := range h.rooms {
		if clients[c] {
			delete(clients, c)
			if len(clients) == 0 {
				delete(h.rooms, room)
			}
		}
	}
}

// Broadcast queues an event for every subscriber of a room. Callers invoke
// this only after their database write has committed, so every delivered
// event describes persisted state. With a backplane configured the message
// goes out through pub/sub and comes back to every process, this one
// included.
func (h *Hub) Broadcast(room, event string, data interface{}) {
	payload, err := json.Marshal(map[string]interface{}{
		"event": event,
		"data":  data,
	})
	if err != nil {
		log.Printf("realtime: failed to marshal %s event: %v", event, err)
		return
	}

	if h.backplane != nil {
		if err := h.backplane.Publish(room, payload); err != nil {
			log.Printf("realtime: backplane publish failed, delivering locally: %v", err)
			h.enqueue(Message{Room: room, Payload: payload})
		}
		return
	}
	h.enqueue(Message{Room: room, Payload: payload})
}

// enqueue hands a message to the dispatch loop, dropping it if the queue
// is saturated
func (h *Hub) enqueue(msg Message) {
	select {
	case h.queue <- msg:
	default:
		log.Printf("realtime: dispatch queue full, dropping message for %s", msg.Room)
	}
}

// deliver fans a message out to the room's current subscribers. A client
// with a full send buffer is skipped, not waited for.
func (h *Hub) deliver(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[msg.Room] {
		select {
		case c.send <- msg.Payload:
		default:
		}
	}
}

// RoomSize reports the number of subscribers in a room
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
