package handlers

import (
	"net/http"
	"strconv"

	"homehub/internal/realtime"
	"homehub/internal/service"
)

// CalendarHandler handles calendar HTTP requests
type CalendarHandler struct {
	calendarService *service.CalendarService
	hub             *realtime.Hub
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(calendarService *service.CalendarService, hub *realtime.Hub) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService, hub: hub}
}

// GetWindow returns the family's occurrences between ?start= and ?end=,
// grouped by day
func (h *CalendarHandler) GetWindow(w http.ResponseWriter, r *http.Request) {
	familyID := GetFamilyIDFromContext(r.Context())

	days, err := h.calendarService.GetWindow(familyID, r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		respondServiceError(w, "Failed to expand calendar", err)
		return
	}
	respondSuccess(w, http.StatusOK, days)
}

// CreateEvent stores a calendar event
func (h *CalendarHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	input, err := parseEventForm(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	familyID := GetFamilyIDFromContext(r.Context())
	user := GetUserFromContext(r.Context())

	event, err := h.calendarService.CreateEvent(familyID, user.ID, input)
	if err != nil {
		respondServiceError(w, "Failed to create event", err)
		return
	}

	h.hub.Broadcast(realtime.RoomFamily(familyID), realtime.EventCalendarAdded, event)
	announceActivity(h.hub, familyID, "calendar")
	respondSuccess(w, http.StatusCreated, event)
}

// UpdateEvent rewrites an event and, for repeating events, its whole series
func (h *CalendarHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid event ID")
		return
	}
	input, err := parseEventForm(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	familyID := GetFamilyIDFromContext(r.Context())

	event, err := h.calendarService.UpdateEvent(familyID, eventID, input)
	if err != nil {
		respondServiceError(w, "Failed to update event", err)
		return
	}

	h.hub.Broadcast(realtime.RoomFamily(familyID), realtime.EventCalendarUpdated, event)
	respondSuccess(w, http.StatusOK, event)
}

// DeleteEvent removes an event and every occurrence of its series
func (h *CalendarHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid event ID")
		return
	}
	familyID := GetFamilyIDFromContext(r.Context())

	if _, err := h.calendarService.DeleteEvent(familyID, eventID); err != nil {
		respondServiceError(w, "Failed to delete event", err)
		return
	}

	h.hub.Broadcast(realtime.RoomFamily(familyID), realtime.EventCalendarDeleted, map[string]interface{}{"id": eventID})
	respondSuccess(w, http.StatusOK, nil)
}

func parseEventForm(r *http.Request) (service.EventInput, error) {
	if err := r.ParseForm(); err != nil {
		return service.EventInput{}, err
	}

	interval, _ := strconv.Atoi(r.FormValue("recurrence_interval"))
	return service.EventInput{
		Title:              r.FormValue("title"),
		Date:               r.FormValue("date"),
		StartTime:          r.FormValue("start_time"),
		EndTime:            r.FormValue("end_time"),
		AllDay:             r.FormValue("all_day") == "true" || r.FormValue("all_day") == "1",
		Color:              r.FormValue("color"),
		RecurrenceType:     r.FormValue("recurrence_type"),
		RecurrenceInterval: interval,
		RecurrenceEnd:      r.FormValue("recurrence_end"),
	}, nil
}
