package repository

import (
	"database/sql"
	"fmt"
	"time"

	"homehub/internal/database"
	"homehub/internal/models"
)

// FamilyRepository handles database operations for families and membership
type FamilyRepository struct {
	db *database.DB
}

// NewFamilyRepository creates a new family repository
func NewFamilyRepository(db *database.DB) *FamilyRepository {
	return &FamilyRepository{db: db}
}

// CreateFamily creates a new family owned by the creator, who always
// becomes its first member.
func (r *FamilyRepository) CreateFamily(name string, ownerID int64) (*models.Family, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := "INSERT INTO families (name, owner_id) VALUES (?, ?)"
	familyID, err := tx.ExecReturningID(query, name, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to create family: %w", err)
	}

	query = "INSERT INTO family_members (family_id, user_id) VALUES (?, ?)"
	if _, err := tx.Exec(query, familyID, ownerID); err != nil {
		return nil, fmt.Errorf("failed to add family member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.Family{
		ID:        familyID,
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
	}, nil
}

// GetFamilyByID retrieves a family by ID
func (r *FamilyRepository) GetFamilyByID(familyID int64) (*models.Family, error) {
	query := "SELECT id, name, owner_id, created_at FROM families WHERE id = ?"
	family := &models.Family{}
	err := r.db.QueryRow(query, familyID).Scan(
		&family.ID,
		&family.Name,
		&family.OwnerID,
		&family.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	return family, nil
}

// GetUserFamilies retrieves all families a user belongs to
func (r *FamilyRepository) GetUserFamilies(userID int64) ([]models.Family, error) {
	query := `
		SELECT f.id, f.name, f.owner_id, f.created_at
		FROM families f
		INNER JOIN family_members fm ON f.id = fm.family_id
		WHERE fm.user_id = ?
		ORDER BY f.created_at
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query families: %w", err)
	}
	defer rows.Close()

	var families []models.Family
	for rows.Next() {
		var family models.Family
		if err := rows.Scan(&family.ID, &family.Name, &family.OwnerID, &family.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan family: %w", err)
		}
		families = append(families, family)
	}
	return families, rows.Err()
}

// IsFamilyMember checks if a user is currently a member of a family.
// This is the live membership check behind every guarded request and
// every realtime room join.
func (r *FamilyRepository) IsFamilyMember(userID, familyID int64) (bool, error) {
	query := "SELECT COUNT(*) FROM family_members WHERE user_id = ? AND family_id = ?"
	var count int
	if err := r.db.QueryRow(query, userID, familyID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check family membership: %w", err)
	}
	return count > 0, nil
}

// AddFamilyMember adds a user to a family
func (r *FamilyRepository) AddFamilyMember(familyID, userID int64) error {
	query := "INSERT INTO family_members (family_id, user_id) VALUES (?, ?)"
	if _, err := r.db.Exec(query, familyID, userID); err != nil {
		return fmt.Errorf("failed to add family member: %w", err)
	}
	return nil
}

// RemoveFamilyMember removes a user from a family
func (r *FamilyRepository) RemoveFamilyMember(familyID, userID int64) error {
	query := "DELETE FROM family_members WHERE family_id = ? AND user_id = ?"
	if _, err := r.db.Exec(query, familyID, userID); err != nil {
		return fmt.Errorf("failed to remove family member: %w", err)
	}
	return nil
}

// GetFamilyMembers retrieves the members of a family in join order.
// The chore rotation relies on this order being stable.
func (r *FamilyRepository) GetFamilyMembers(familyID int64) ([]models.User, error) {
	query := `
		SELECT u.id, u.username, COALESCE(u.email, ''), u.password_hash, u.avatar_url, u.language, u.created_at
		FROM family_members fm
		INNER JOIN users u ON fm.user_id = u.id
		WHERE fm.family_id = ?
		ORDER BY fm.joined_at, u.id
	`
	rows, err := r.db.Query(query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query family members: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID, &user.Username, &user.Email, &user.PasswordHash,
			&user.AvatarURL, &user.Language, &user.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan family member: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// DeleteFamily deletes a family. All owned rows (lists, events, meals,
// notes, chores, vault entries) cascade away with it.
func (r *FamilyRepository) DeleteFamily(familyID int64) error {
	query := "DELETE FROM families WHERE id = ?"
	if _, err := r.db.Exec(query, familyID); err != nil {
		return fmt.Errorf("failed to delete family: %w", err)
	}
	return nil
}
