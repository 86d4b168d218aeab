package service

import (
	"errors"
	"fmt"
	"time"

	"homehub/internal/models"
	"homehub/internal/repository"
	"homehub/internal/validation"
)

var ErrMealNotFound = errors.New("meal not found")

// Meal plan slot vocabulary. A week's plan is a grid of day x meal type,
// and each slot holds at most one meal.
var (
	mealDays  = map[string]bool{"monday": true, "tuesday": true, "wednesday": true, "thursday": true, "friday": true, "saturday": true, "sunday": true}
	mealTypes = map[string]bool{"breakfast": true, "lunch": true, "dinner": true}
)

// MealService handles the weekly meal plan
type MealService struct {
	mealRepo   *repository.MealRepository
	familyRepo *repository.FamilyRepository
}

// NewMealService creates a new meal service
func NewMealService(mealRepo *repository.MealRepository, familyRepo *repository.FamilyRepository) *MealService {
	return &MealService{mealRepo: mealRepo, familyRepo: familyRepo}
}

// GetWeekPlan returns the family's meals for the week containing now
func (s *MealService) GetWeekPlan(familyID int64, now time.Time) (time.Time, []models.Meal, error) {
	weekOf := WeekAnchor(now)
	meals, err := s.mealRepo.GetWeekMeals(familyID, weekOf)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("failed to get meals: %w", err)
	}
	return weekOf, meals, nil
}

// SetMeal writes a slot in the week containing now. Writing an occupied
// slot replaces it.
func (s *MealService) SetMeal(familyID, authorID int64, now time.Time, day, mealType, description, notes string) (*models.Meal, error) {
	if !mealDays[day] {
		return nil, validation.ValidationError{Field: "day", Message: "unknown day"}
	}
	if !mealTypes[mealType] {
		return nil, validation.ValidationError{Field: "meal_type", Message: "unknown meal type"}
	}
	if err := validation.ValidateRequired("description", description); err != nil {
		return nil, err
	}

	meal, err := s.mealRepo.UpsertMeal(&models.Meal{
		WeekOf:      WeekAnchor(now),
		Day:         day,
		MealType:    mealType,
		Description: description,
		Notes:       notes,
		FamilyID:    familyID,
		AuthorID:    authorID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set meal: %w", err)
	}
	return meal, nil
}

// ClearMeal empties one of the family's meal slots. Allowed for the meal's
// author and for the family owner.
func (s *MealService) ClearMeal(familyID, mealID, requesterID int64) (*models.Meal, error) {
	meal, err := s.mealRepo.GetMealByID(mealID)
	if err != nil {
		return nil, fmt.Errorf("failed to get meal: %w", err)
	}
	if meal == nil || meal.FamilyID != familyID {
		return nil, ErrMealNotFound
	}
	if meal.AuthorID != requesterID {
		family, err := s.familyRepo.GetFamilyByID(familyID)
		if err != nil {
			return nil, fmt.Errorf("failed to get family: %w", err)
		}
		if family == nil || !family.IsOwner(requesterID) {
			return nil, ErrPermissionDenied
		}
	}
	if err := s.mealRepo.DeleteMeal(mealID); err != nil {
		return nil, fmt.Errorf("failed to clear meal: %w", err)
	}
	return meal, nil
}
