package handlers

import (
	"net/http"
	"time"

	"homehub/internal/realtime"
	"homehub/internal/service"
)

// NoteHandler handles bulletin board HTTP requests
type NoteHandler struct {
	noteService *service.NoteService
	hub         *realtime.Hub
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(noteService *service.NoteService, hub *realtime.Hub) *NoteHandler {
	return &NoteHandler{noteService: noteService, hub: hub}
}

// GetBoard returns the family's notes, pinned first
func (h *NoteHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	familyID := GetFamilyIDFromContext(r.Context())

	notes, err := h.noteService.Board(familyID, time.Now())
	if err != nil {
		respondServiceError(w, "Failed to get board", err)
		return
	}
	respondSuccess(w, http.StatusOK, notes)
}

// AddNote posts a note to the board
func (h *NoteHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	familyID := GetFamilyIDFromContext(r.Context())
	user := GetUserFromContext(r.Context())

	note, err := h.noteService.AddNote(familyID, user.ID, r.FormValue("content"))
	if err != nil {
		respondServiceError(w, "Failed to add note", err)
		return
	}

	h.hub.Broadcast(realtime.RoomFamily(familyID), realtime.EventNoteAdded, note)
	announceActivity(h.hub, familyID, "bulletin_board")
	respondSuccess(w, http.StatusCreated, note)
}

// TogglePin flips a note's pinned flag
func (h *NoteHandler) TogglePin(w http.ResponseWriter, r *http.Request) {
	noteID, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid note ID")
		return
	}
	familyID := GetFamilyIDFromContext(r.Context())

	note, err := h.noteService.TogglePin(familyID, noteID)
	if err != nil {
		respondServiceError(w, "Failed to pin note", err)
		return
	}

	h.hub.Broadcast(realtime.RoomFamily(familyID), realtime.EventNotePinned, note)
	respondSuccess(w, http.StatusOK, note)
}

// DeleteNote removes a note from the board
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	noteID, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid note ID")
		return
	}
	familyID := GetFamilyIDFromContext(r.Context())
	user := GetUserFromContext(r.Context())

	if _, err := h.noteService.DeleteNote(familyID, noteID, user.ID); err != nil {
		respondServiceError(w, "Failed to delete note", err)
		return
	}

	h.hub.Broadcast(realtime.RoomFamily(familyID), realtime.EventNoteDeleted, map[string]interface{}{"id": noteID})
	respondSuccess(w, http.StatusOK, nil)
}
