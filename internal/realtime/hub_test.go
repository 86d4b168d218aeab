package realtime

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"homehub/internal/models"
)

type fakeMembership struct {
	members map[[2]int64]bool
	err     error
}

func (f *fakeMembership) IsFamilyMember(userID, familyID int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.members[[2]int64{userID, familyID}], nil
}

type fakeLists struct {
	families map[int64]int64
}

func (f *fakeLists) GetListByID(listID int64) (*models.ShoppingList, error) {
	familyID, ok := f.families[listID]
	if !ok {
		return nil, nil
	}
	return &models.ShoppingList{ID: listID, FamilyID: familyID}, nil
}

func newTestHub() *Hub {
	membership := &fakeMembership{members: map[[2]int64]bool{
		{10, 1}: true,
	}}
	lists := &fakeLists{families: map[int64]int64{5: 1}}
	return NewHub(membership, lists)
}

func newTestClient(hub *Hub, userID int64, buffer int) *Client {
	return &Client{hub: hub, send: make(chan []byte, buffer), userID: userID}
}

func receive(t *testing.T, c *Client) map[string]interface{} {
	t.Helper()
	select {
	case payload := <-c.send:
		var decoded map[string]interface{}
		if err := json.Unmarshal(payload, &decoded); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		return decoded
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func expectSilence(t *testing.T, c *Client) {
	t.Helper()
	select {
	case payload := <-c.send:
		t.Fatalf("expected no message, got %s", payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcastScopedToRoom(t *testing.T) {
	hub := newTestHub()
	go hub.Run()
	defer hub.Stop()

	inRoom := newTestClient(hub, 10, sendBufferSize)
	otherRoom := newTestClient(hub, 11, sendBufferSize)
	hub.Join(RoomFamily(1), inRoom)
	hub.Join(RoomFamily(2), otherRoom)

	hub.Broadcast(RoomFamily(1), EventNoteAdded, map[string]interface{}{"id": 3})

	got := receive(t, inRoom)
	if got["event"] != EventNoteAdded {
		t.Errorf("expected event %q, got %v", EventNoteAdded, got["event"])
	}
	expectSilence(t, otherRoom)
}

func TestBroadcastPreservesOrder(t *testing.T) {
	hub := newTestHub()
	go hub.Run()
	defer hub.Stop()

	client := newTestClient(hub, 10, sendBufferSize)
	hub.Join(RoomList(5), client)

	for i := 0; i < 5; i++ {
		hub.Broadcast(RoomList(5), EventItemAdded, map[string]interface{}{"seq": i})
	}

	for i := 0; i < 5; i++ {
		got := receive(t, client)
		data := got["data"].(map[string]interface{})
		if int(data["seq"].(float64)) != i {
			t.Fatalf("expected message %d, got %v", i, data["seq"])
		}
	}
}

func TestSlowClientDropsInsteadOfBlocking(t *testing.T) {
	hub := newTestHub()
	go hub.Run()
	defer hub.Stop()

	slow := newTestClient(hub, 10, 1)
	hub.Join(RoomFamily(1), slow)

	for i := 0; i < 10; i++ {
		hub.Broadcast(RoomFamily(1), EventNewActivity, map[string]interface{}{"seq": i})
	}

	// Let dispatch finish before reading; the buffer holds one message and
	// the rest must have been dropped, not queued behind a blocked loop.
	time.Sleep(100 * time.Millisecond)
	got := receive(t, slow)
	data := got["data"].(map[string]interface{})
	if int(data["seq"].(float64)) != 0 {
		t.Errorf("expected the first message to survive, got %v", data["seq"])
	}

	// Whatever trickled in afterwards fits in the buffer; the rest is gone
	expectSilence(t, slow)
}

func TestJoinRequiresMembership(t *testing.T) {
	hub := newTestHub()

	member := newTestClient(hub, 10, sendBufferSize)
	stranger := newTestClient(hub, 99, sendBufferSize)

	member.handleJoin(joinRequest{Action: "join", Room: "family", ID: 1})
	stranger.handleJoin(joinRequest{Action: "join", Room: "family", ID: 1})

	if got := hub.RoomSize(RoomFamily(1)); got != 1 {
		t.Errorf("expected only the member in the room, got %d subscribers", got)
	}
}

func TestListJoinGuardedByOwningFamily(t *testing.T) {
	hub := newTestHub()

	member := newTestClient(hub, 10, sendBufferSize)
	stranger := newTestClient(hub, 99, sendBufferSize)

	member.handleJoin(joinRequest{Action: "join", Room: "list", ID: 5})
	stranger.handleJoin(joinRequest{Action: "join", Room: "list", ID: 5})
	member.handleJoin(joinRequest{Action: "join", Room: "list", ID: 404})

	if got := hub.RoomSize(RoomList(5)); got != 1 {
		t.Errorf("expected only the member in the list room, got %d subscribers", got)
	}
	if got := hub.RoomSize(RoomList(404)); got != 0 {
		t.Errorf("expected nobody in the room of a missing list, got %d", got)
	}
}

func TestJoinDeniedOnMembershipError(t *testing.T) {
	membership := &fakeMembership{err: errors.New("db down")}
	hub := NewHub(membership, &fakeLists{})

	client := newTestClient(hub, 10, sendBufferSize)
	client.handleJoin(joinRequest{Action: "join", Room: "family", ID: 1})

	if got := hub.RoomSize(RoomFamily(1)); got != 0 {
		t.Errorf("expected join to fail closed, got %d subscribers", got)
	}
}

func TestLeaveRemovesFromAllRooms(t *testing.T) {
	hub := newTestHub()
	go hub.Run()
	defer hub.Stop()

	client := newTestClient(hub, 10, sendBufferSize)
	hub.Join(RoomFamily(1), client)
	hub.Join(RoomList(5), client)

	hub.Leave(client)

	hub.Broadcast(RoomFamily(1), EventNewActivity, nil)
	hub.Broadcast(RoomList(5), EventItemAdded, nil)
	expectSilence(t, client)
}
