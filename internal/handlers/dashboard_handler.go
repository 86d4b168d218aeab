package handlers

import (
	"net/http"
	"time"

	"homehub/internal/service"
)

// DashboardHandler assembles the landing view of the active family: today's
// occurrences, this week's assignments and plan, recent notes and lists.
type DashboardHandler struct {
	listService     *service.ListService
	calendarService *service.CalendarService
	choreService    *service.ChoreService
	mealService     *service.MealService
	noteService     *service.NoteService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(
	listService *service.ListService,
	calendarService *service.CalendarService,
	choreService *service.ChoreService,
	mealService *service.MealService,
	noteService *service.NoteService,
) *DashboardHandler {
	return &DashboardHandler{
		listService:     listService,
		calendarService: calendarService,
		choreService:    choreService,
		mealService:     mealService,
		noteService:     noteService,
	}
}

// GetDashboard returns the aggregated view. Loading it also triggers the
// old-assignment retention sweep, which keeps the table bounded without a
// scheduler.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	familyID := GetFamilyIDFromContext(r.Context())
	now := time.Now()

	h.choreService.RetentionSweep(familyID, now)

	today := now.Format("2006-01-02")
	occurrences, err := h.calendarService.GetWindow(familyID, today, today)
	if err != nil {
		respondServiceError(w, "Failed to expand today's calendar", err)
		return
	}

	assignments, err := h.choreService.GetWeekAssignments(familyID, now)
	if err != nil {
		respondServiceError(w, "Failed to get assignments", err)
		return
	}

	_, meals, err := h.mealService.GetWeekPlan(familyID, now)
	if err != nil {
		respondServiceError(w, "Failed to get meal plan", err)
		return
	}

	notes, err := h.noteService.Board(familyID, now)
	if err != nil {
		respondServiceError(w, "Failed to get board", err)
		return
	}

	lists, err := h.listService.GetFamilyLists(familyID)
	if err != nil {
		respondServiceError(w, "Failed to get lists", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"today":       occurrences[today],
		"assignments": assignments,
		"meals":       meals,
		"notes":       notes,
		"lists":       lists,
	})
}
