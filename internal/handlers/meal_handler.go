package handlers

import (
	"net/http"
	"time"

	"homehub/internal/realtime"
	"homehub/internal/service"
)

// MealHandler handles weekly meal plan HTTP requests
type MealHandler struct {
	mealService *service.MealService
	hub         *realtime.Hub
}

// NewMealHandler creates a new meal handler
func NewMealHandler(mealService *service.MealService, hub *realtime.Hub) *MealHandler {
	return &MealHandler{mealService: mealService, hub: hub}
}

// GetWeek returns this week's meal plan
func (h *MealHandler) GetWeek(w http.ResponseWriter, r *http.Request) {
	familyID := GetFamilyIDFromContext(r.Context())

	weekOf, meals, err := h.mealService.GetWeekPlan(familyID, time.Now())
	if err != nil {
		respondServiceError(w, "Failed to get meal plan", err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"week_of": weekOf.Format("2006-01-02"),
		"meals":   meals,
	})
}

// SetMeal writes one slot of this week's plan, replacing whatever was there
func (h *MealHandler) SetMeal(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	familyID := GetFamilyIDFromContext(r.Context())
	user := GetUserFromContext(r.Context())

	meal, err := h.mealService.SetMeal(familyID, user.ID, time.Now(),
		r.FormValue("day"), r.FormValue("meal_type"),
		r.FormValue("description"), r.FormValue("notes"))
	if err != nil {
		respondServiceError(w, "Failed to set meal", err)
		return
	}

	h.hub.Broadcast(realtime.RoomFamily(familyID), realtime.EventMealUpdated, meal)
	respondSuccess(w, http.StatusOK, meal)
}

// ClearMeal empties a meal slot
func (h *MealHandler) ClearMeal(w http.ResponseWriter, r *http.Request) {
	mealID, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid meal ID")
		return
	}
	familyID := GetFamilyIDFromContext(r.Context())
	user := GetUserFromContext(r.Context())

	meal, err := h.mealService.ClearMeal(familyID, mealID, user.ID)
	if err != nil {
		respondServiceError(w, "Failed to clear meal", err)
		return
	}

	h.hub.Broadcast(realtime.RoomFamily(familyID), realtime.EventMealDeleted, map[string]interface{}{
		"id":        meal.ID,
		"day":       meal.Day,
		"meal_type": meal.MealType,
	})
	respondSuccess(w, http.StatusOK, nil)
}
