package repository

import (
	"database/sql"
	"fmt"
	"time"

	"homehub/internal/database"
	"homehub/internal/models"
)

// ChoreRepository handles database operations for chores and their weekly
// assignments
type ChoreRepository struct {
	db *database.DB
}

// NewChoreRepository creates a new chore repository
func NewChoreRepository(db *database.DB) *ChoreRepository {
	return &ChoreRepository{db: db}
}

// CreateChore adds a chore to a family's chore bank
func (r *ChoreRepository) CreateChore(familyID int64, name string, points, frequencyDays int) (*models.Chore, error) {
	query := "INSERT INTO chores (name, points, frequency_days, family_id) VALUES (?, ?, ?, ?)"
	choreID, err := r.db.ExecReturningID(query, name, points, frequencyDays, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to create chore: %w", err)
	}

	return &models.Chore{
		ID:            choreID,
		Name:          name,
		Points:        points,
		FrequencyDays: frequencyDays,
		FamilyID:      familyID,
	}, nil
}

// GetChoreByID retrieves a chore by ID
func (r *ChoreRepository) GetChoreByID(choreID int64) (*models.Chore, error) {
	query := "SELECT id, name, points, frequency_days, last_generated, family_id FROM chores WHERE id = ?"
	chore := &models.Chore{}
	err := r.db.QueryRow(query, choreID).Scan(
		&chore.ID,
		&chore.Name,
		&chore.Points,
		&chore.FrequencyDays,
		&chore.LastGenerated,
		&chore.FamilyID,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chore: %w", err)
	}
	return chore, nil
}

// GetFamilyChores retrieves a family's chore bank ordered by name
func (r *ChoreRepository) GetFamilyChores(familyID int64) ([]models.Chore, error) {
	query := `
		SELECT id, name, points, frequency_days, last_generated, family_id
		FROM chores WHERE family_id = ? ORDER BY name, id
	`
	rows, err := r.db.Query(query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chores: %w", err)
	}
	defer rows.Close()

	var chores []models.Chore
	for rows.Next() {
		var chore models.Chore
		if err := rows.Scan(
			&chore.ID, &chore.Name, &chore.Points, &chore.FrequencyDays,
			&chore.LastGenerated, &chore.FamilyID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chore: %w", err)
		}
		chores = append(chores, chore)
	}
	return chores, rows.Err()
}

// DeleteChore removes a chore and its assignments
func (r *ChoreRepository) DeleteChore(choreID int64) error {
	query := "DELETE FROM chores WHERE id = ?"
	if _, err := r.db.Exec(query, choreID); err != nil {
		return fmt.Errorf("failed to delete chore: %w", err)
	}
	return nil
}

// HasAssignmentsForWeek reports whether any assignment already exists for
// the family and week anchor. Rotation generation is idempotent per
// family-week and uses this as its guard.
func (r *ChoreRepository) HasAssignmentsForWeek(familyID int64, weekOf time.Time) (bool, error) {
	query := "SELECT COUNT(*) FROM chore_assignments WHERE family_id = ? AND week_of = ?"
	var count int
	if err := r.db.QueryRow(query, familyID, weekOf).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check weekly assignments: %w", err)
	}
	return count > 0, nil
}

// CreateAssignmentsBatch persists a generation run: all assignment rows plus
// the last_generated stamp on each assigned chore, in one transaction.
// Any failure rolls the whole batch back.
func (r *ChoreRepository) CreateAssignmentsBatch(assignments []models.ChoreAssignment, weekOf time.Time) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, a := range assignments {
		query := "INSERT INTO chore_assignments (chore_id, user_id, family_id, week_of) VALUES (?, ?, ?, ?)"
		if _, err := tx.Exec(query, a.ChoreID, a.UserID, a.FamilyID, a.WeekOf); err != nil {
			return fmt.Errorf("failed to create assignment: %w", err)
		}

		query = "UPDATE chores SET last_generated = ? WHERE id = ?"
		if _, err := tx.Exec(query, weekOf, a.ChoreID); err != nil {
			return fmt.Errorf("failed to stamp chore: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit assignments: %w", err)
	}
	return nil
}

// GetWeekAssignments retrieves a family's assignments for one week anchor,
// with chore and member names joined in.
func (r *ChoreRepository) GetWeekAssignments(familyID int64, weekOf time.Time) ([]models.ChoreAssignment, error) {
	query := `
		SELECT a.id, a.chore_id, c.name, c.points, a.user_id, u.username,
		       a.family_id, a.week_of, a.complete
		FROM chore_assignments a
		INNER JOIN chores c ON a.chore_id = c.id
		INNER JOIN users u ON a.user_id = u.id
		WHERE a.family_id = ? AND a.week_of = ?
		ORDER BY u.username, a.id
	`
	rows, err := r.db.Query(query, familyID, weekOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []models.ChoreAssignment
	for rows.Next() {
		var a models.ChoreAssignment
		if err := rows.Scan(
			&a.ID, &a.ChoreID, &a.ChoreName, &a.Points, &a.UserID, &a.UserName,
			&a.FamilyID, &a.WeekOf, &a.Complete,
		); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// GetAssignmentByID retrieves a single assignment
func (r *ChoreRepository) GetAssignmentByID(assignmentID int64) (*models.ChoreAssignment, error) {
	query := `
		SELECT a.id, a.chore_id, c.name, c.points, a.user_id, u.username,
		       a.family_id, a.week_of, a.complete
		FROM chore_assignments a
		INNER JOIN chores c ON a.chore_id = c.id
		INNER JOIN users u ON a.user_id = u.id
		WHERE a.id = ?
	`
	a := &models.ChoreAssignment{}
	err := r.db.QueryRow(query, assignmentID).Scan(
		&a.ID, &a.ChoreID, &a.ChoreName, &a.Points, &a.UserID, &a.UserName,
		&a.FamilyID, &a.WeekOf, &a.Complete,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return a, nil
}

// SetAssignmentComplete sets an assignment's completion flag
func (r *ChoreRepository) SetAssignmentComplete(assignmentID int64, complete bool) error {
	query := "UPDATE chore_assignments SET complete = ? WHERE id = ?"
	if _, err := r.db.Exec(query, complete, assignmentID); err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}
	return nil
}

// DeleteAssignmentsBefore removes a family's assignments with a week anchor
// before the cutoff. Used by the best-effort retention sweep.
func (r *ChoreRepository) DeleteAssignmentsBefore(familyID int64, cutoff time.Time) error {
	query := "DELETE FROM chore_assignments WHERE family_id = ? AND week_of < ?"
	if _, err := r.db.Exec(query, familyID, cutoff); err != nil {
		return fmt.Errorf("failed to delete old assignments: %w", err)
	}
	return nil
}
