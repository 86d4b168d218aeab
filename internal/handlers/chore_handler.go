package handlers

import (
	"net/http"
	"strconv"
	"time"

	"homehub/internal/realtime"
	"homehub/internal/service"
	"homehub/internal/validation"
)

// ChoreHandler handles chore bank and rotation HTTP requests
type ChoreHandler struct {
	choreService *service.ChoreService
	hub          *realtime.Hub
}

// NewChoreHandler creates a new chore handler
func NewChoreHandler(choreService *service.ChoreService, hub *realtime.Hub) *ChoreHandler {
	return &ChoreHandler{choreService: choreService, hub: hub}
}

// ListChores returns the family's chore bank
func (h *ChoreHandler) ListChores(w http.ResponseWriter, r *http.Request) {
	familyID := GetFamilyIDFromContext(r.Context())

	chores, err := h.choreService.GetFamilyChores(familyID)
	if err != nil {
		respondServiceError(w, "Failed to list chores", err)
		return
	}
	respondSuccess(w, http.StatusOK, chores)
}

// CreateChore adds a chore to the bank
func (h *ChoreHandler) CreateChore(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	familyID := GetFamilyIDFromContext(r.Context())

	points, _ := strconv.Atoi(r.FormValue("points"))
	frequencyDays, _ := strconv.Atoi(r.FormValue("frequency_days"))

	chore, err := h.choreService.CreateChore(familyID, r.FormValue("name"), points, frequencyDays)
	if err != nil {
		respondServiceError(w, "Failed to create chore", err)
		return
	}
	respondSuccess(w, http.StatusCreated, chore)
}

// DeleteChore removes a chore and its assignments
func (h *ChoreHandler) DeleteChore(w http.ResponseWriter, r *http.Request) {
	choreID, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid chore ID")
		return
	}
	familyID := GetFamilyIDFromContext(r.Context())

	if err := h.choreService.DeleteChore(familyID, choreID); err != nil {
		respondServiceError(w, "Failed to delete chore", err)
		return
	}
	respondSuccess(w, http.StatusOK, nil)
}

// GetWeek returns this week's assignments
func (h *ChoreHandler) GetWeek(w http.ResponseWriter, r *http.Request) {
	familyID := GetFamilyIDFromContext(r.Context())

	assignments, err := h.choreService.GetWeekAssignments(familyID, time.Now())
	if err != nil {
		respondServiceError(w, "Failed to get assignments", err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"week_of":     service.WeekAnchor(time.Now()).Format("2006-01-02"),
		"assignments": assignments,
	})
}

// GetHistory returns the assignments for the week containing the given
// date. Past weeks beyond the retention window come back empty.
func (h *ChoreHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	familyID := GetFamilyIDFromContext(r.Context())

	week, err := validation.ValidateDate("week", r.URL.Query().Get("week"))
	if err != nil {
		respondServiceError(w, "Invalid history week", err)
		return
	}

	assignments, err := h.choreService.GetWeekAssignments(familyID, week)
	if err != nil {
		respondServiceError(w, "Failed to get chore history", err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"week_of":     service.WeekAnchor(week).Format("2006-01-02"),
		"assignments": assignments,
	})
}

// Generate runs the weekly rotation for the current week
func (h *ChoreHandler) Generate(w http.ResponseWriter, r *http.Request) {
	familyID := GetFamilyIDFromContext(r.Context())

	assignments, err := h.choreService.Generate(familyID, time.Now())
	if err != nil {
		respondServiceError(w, "Failed to generate assignments", err)
		return
	}
	respondSuccess(w, http.StatusCreated, assignments)
}

// ToggleAssignment flips an assignment's completion flag
func (h *ChoreHandler) ToggleAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid assignment ID")
		return
	}
	familyID := GetFamilyIDFromContext(r.Context())
	user := GetUserFromContext(r.Context())

	assignment, err := h.choreService.ToggleAssignment(familyID, assignmentID, user.ID)
	if err != nil {
		respondServiceError(w, "Failed to toggle assignment", err)
		return
	}

	h.hub.Broadcast(realtime.RoomFamily(familyID), realtime.EventChoreToggled, assignment)
	respondSuccess(w, http.StatusOK, assignment)
}
