package repository

import (
	"database/sql"
	"fmt"
	"time"

	"homehub/internal/database"
	"homehub/internal/models"
)

// MealRepository handles database operations for the weekly meal plan
type MealRepository struct {
	db *database.DB
}

// NewMealRepository creates a new meal repository
func NewMealRepository(db *database.DB) *MealRepository {
	return &MealRepository{db: db}
}

// UpsertMeal writes a meal slot. The slot is keyed by family, week anchor,
// day and meal type; writing an existing slot replaces its content and
// records the new author.
func (r *MealRepository) UpsertMeal(m *models.Meal) (*models.Meal, error) {
	existing, err := r.getSlot(m.FamilyID, m.WeekOf, m.Day, m.MealType)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		query := "UPDATE meals SET description = ?, notes = ?, author_id = ? WHERE id = ?"
		if _, err := r.db.Exec(query, m.Description, m.Notes, m.AuthorID, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to update meal: %w", err)
		}
		m.ID = existing.ID
		return m, nil
	}

	query := `
		INSERT INTO meals (week_of, day, meal_type, description, notes, family_id, author_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	mealID, err := r.db.ExecReturningID(query,
		m.WeekOf, m.Day, m.MealType, m.Description, m.Notes, m.FamilyID, m.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("failed to create meal: %w", err)
	}
	m.ID = mealID
	return m, nil
}

func (r *MealRepository) getSlot(familyID int64, weekOf time.Time, day, mealType string) (*models.Meal, error) {
	query := `
		SELECT id, week_of, day, meal_type, description, notes, family_id, author_id
		FROM meals
		WHERE family_id = ? AND week_of = ? AND day = ? AND meal_type = ?
	`
	meal := &models.Meal{}
	err := r.db.QueryRow(query, familyID, weekOf, day, mealType).Scan(
		&meal.ID, &meal.WeekOf, &meal.Day, &meal.MealType,
		&meal.Description, &meal.Notes, &meal.FamilyID, &meal.AuthorID,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meal slot: %w", err)
	}
	return meal, nil
}

// GetMealByID retrieves a meal by ID
func (r *MealRepository) GetMealByID(mealID int64) (*models.Meal, error) {
	query := `
		SELECT id, week_of, day, meal_type, description, notes, family_id, author_id
		FROM meals WHERE id = ?
	`
	meal := &models.Meal{}
	err := r.db.QueryRow(query, mealID).Scan(
		&meal.ID, &meal.WeekOf, &meal.Day, &meal.MealType,
		&meal.Description, &meal.Notes, &meal.FamilyID, &meal.AuthorID,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meal: %w", err)
	}
	return meal, nil
}

// GetWeekMeals retrieves a family's meal plan for one week anchor
func (r *MealRepository) GetWeekMeals(familyID int64, weekOf time.Time) ([]models.Meal, error) {
	query := `
		SELECT id, week_of, day, meal_type, description, notes, family_id, author_id
		FROM meals
		WHERE family_id = ? AND week_of = ?
		ORDER BY id
	`
	rows, err := r.db.Query(query, familyID, weekOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query meals: %w", err)
	}
	defer rows.Close()

	var meals []models.Meal
	for rows.Next() {
		var meal models.Meal
		if err := rows.Scan(
			&meal.ID, &meal.WeekOf, &meal.Day, &meal.MealType,
			&meal.Description, &meal.Notes, &meal.FamilyID, &meal.AuthorID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		meals = append(meals, meal)
	}
	return meals, rows.Err()
}

// DeleteMeal clears a meal slot
func (r *MealRepository) DeleteMeal(mealID int64) error {
	query := "DELETE FROM meals WHERE id = ?"
	if _, err := r.db.Exec(query, mealID); err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	return nil
}
