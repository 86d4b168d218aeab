package handlers

import (
	"net/http"

	"homehub/internal/realtime"
	"homehub/internal/service"
)

// ListHandler handles shopping list HTTP requests. Every mutation is
// broadcast to the affected list's room after it has been persisted; new
// items also nudge the family room's activity indicator.
type ListHandler struct {
	listService *service.ListService
	hub         *realtime.Hub
}

// NewListHandler creates a new list handler
func NewListHandler(listService *service.ListService, hub *realtime.Hub) *ListHandler {
	return &ListHandler{listService: listService, hub: hub}
}

// ListLists returns the active family's shopping lists
func (h *ListHandler) ListLists(w http.ResponseWriter, r *http.Request) {
	familyID := GetFamilyIDFromContext(r.Context())

	lists, err := h.listService.GetFamilyLists(familyID)
	if err != nil {
		respondServiceError(w, "Failed to list lists", err)
		return
	}
	respondSuccess(w, http.StatusOK, lists)
}

// CreateList creates a shopping list
func (h *ListHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	familyID := GetFamilyIDFromContext(r.Context())

	list, err := h.listService.CreateList(familyID, r.FormValue("name"))
	if err != nil {
		respondServiceError(w, "Failed to create list", err)
		return
	}

	h.hub.Broadcast(realtime.RoomFamily(familyID), realtime.EventListAdded, list)
	respondSuccess(w, http.StatusCreated, list)
}

// GetList returns one list with its items
func (h *ListHandler) GetList(w http.ResponseWriter, r *http.Request) {
	listID, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid list ID")
		return
	}
	familyID := GetFamilyIDFromContext(r.Context())

	list, items, err := h.listService.GetList(familyID, listID)
	if err != nil {
		respondServiceError(w, "Failed to get list", err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"list":  list,
		"items": items,
	})
}

// DeleteList removes a list and its items
func (h *ListHandler) DeleteList(w http.ResponseWriter, r *http.Request) {
	listID, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid list ID")
		return
	}
	familyID := GetFamilyIDFromContext(r.Context())

	if err := h.listService.DeleteList(familyID, listID); err != nil {
		respondServiceError(w, "Failed to delete list", err)
		return
	}

	h.hub.Broadcast(realtime.RoomFamily(familyID), realtime.EventListDeleted, map[string]interface{}{"id": listID})
	respondSuccess(w, http.StatusOK, nil)
}

// AddItem appends an item to a list
func (h *ListHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	listID, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid list ID")
		return
	}
	familyID := GetFamilyIDFromContext(r.Context())
	user := GetUserFromContext(r.Context())

	item, err := h.listService.AddItem(familyID, listID, user.ID, r.FormValue("text"))
	if err != nil {
		respondServiceError(w, "Failed to add item", err)
		return
	}

	h.announceItem(listID, realtime.EventItemAdded, item)
	announceActivity(h.hub, familyID, "dashboard")
	respondSuccess(w, http.StatusCreated, item)
}

// EditItem rewrites an item's text
func (h *ListHandler) EditItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	itemID, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}
	familyID := GetFamilyIDFromContext(r.Context())

	item, err := h.listService.EditItem(familyID, itemID, r.FormValue("text"))
	if err != nil {
		respondServiceError(w, "Failed to edit item", err)
		return
	}

	h.announceItem(item.ListID, realtime.EventItemEdited, item)
	respondSuccess(w, http.StatusOK, item)
}

// ToggleItem flips an item's done flag
func (h *ListHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}
	familyID := GetFamilyIDFromContext(r.Context())

	item, err := h.listService.ToggleItem(familyID, itemID)
	if err != nil {
		respondServiceError(w, "Failed to toggle item", err)
		return
	}

	h.announceItem(item.ListID, realtime.EventItemToggled, item)
	respondSuccess(w, http.StatusOK, item)
}

// DeleteItem removes an item from its list
func (h *ListHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}
	familyID := GetFamilyIDFromContext(r.Context())

	item, err := h.listService.DeleteItem(familyID, itemID)
	if err != nil {
		respondServiceError(w, "Failed to delete item", err)
		return
	}

	h.announceItem(item.ListID, realtime.EventItemDeleted, map[string]interface{}{
		"id":      item.ID,
		"list_id": item.ListID,
	})
	respondSuccess(w, http.StatusOK, nil)
}

// announceItem broadcasts an item change to the list's room
func (h *ListHandler) announceItem(listID int64, event string, data interface{}) {
	h.hub.Broadcast(realtime.RoomList(listID), event, data)
}
