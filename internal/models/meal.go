package models

import "time"

// Meal is one slot of the weekly meal plan, keyed by family, week anchor
// (Monday), day name and meal type. Saving an existing slot replaces it.
type Meal struct {
	ID          int64     `json:"id"`
	WeekOf      time.Time `json:"week_of"`
	Day         string    `json:"day"`
	MealType    string    `json:"meal_type"`
	Description string    `json:"description"`
	Notes       string    `json:"notes"`
	FamilyID    int64     `json:"family_id"`
	AuthorID    int64     `json:"author_id"`
}
