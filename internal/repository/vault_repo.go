package repository

import (
	"database/sql"
	"fmt"

	"homehub/internal/database"
	"homehub/internal/models"
)

// VaultRepository handles database operations for the family vault
type VaultRepository struct {
	db *database.DB
}

// NewVaultRepository creates a new vault repository
func NewVaultRepository(db *database.DB) *VaultRepository {
	return &VaultRepository{db: db}
}

// CreateEntry stores a new vault entry
func (r *VaultRepository) CreateEntry(familyID, authorID int64, category, title, content string) (*models.VaultEntry, error) {
	query := `
		INSERT INTO vault_entries (category, title, content, family_id, author_id)
		VALUES (?, ?, ?, ?, ?)
	`
	entryID, err := r.db.ExecReturningID(query, category, title, content, familyID, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault entry: %w", err)
	}
	return r.GetEntryByID(entryID)
}

// GetEntryByID retrieves a vault entry by ID
func (r *VaultRepository) GetEntryByID(entryID int64) (*models.VaultEntry, error) {
	query := `
		SELECT id, category, title, content, family_id, author_id, created_at, updated_at
		FROM vault_entries WHERE id = ?
	`
	entry := &models.VaultEntry{}
	err := r.db.QueryRow(query, entryID).Scan(
		&entry.ID, &entry.Category, &entry.Title, &entry.Content,
		&entry.FamilyID, &entry.AuthorID, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vault entry: %w", err)
	}
	return entry, nil
}

// GetFamilyEntries retrieves a family's vault, ordered by category and title
func (r *VaultRepository) GetFamilyEntries(familyID int64) ([]models.VaultEntry, error) {
	query := `
		SELECT id, category, title, content, family_id, author_id, created_at, updated_at
		FROM vault_entries
		WHERE family_id = ?
		ORDER BY category, title, id
	`
	rows, err := r.db.Query(query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query vault entries: %w", err)
	}
	defer rows.Close()

	var entries []models.VaultEntry
	for rows.Next() {
		var entry models.VaultEntry
		if err := rows.Scan(
			&entry.ID, &entry.Category, &entry.Title, &entry.Content,
			&entry.FamilyID, &entry.AuthorID, &entry.CreatedAt, &entry.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan vault entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// UpdateEntry rewrites a vault entry and records who last edited it
func (r *VaultRepository) UpdateEntry(entryID, editorID int64, category, title, content string) error {
	query := `
		UPDATE vault_entries
		SET category = ?, title = ?, content = ?, author_id = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	if _, err := r.db.Exec(query, category, title, content, editorID, entryID); err != nil {
		return fmt.Errorf("failed to update vault entry: %w", err)
	}
	return nil
}

// DeleteEntry removes a vault entry
func (r *VaultRepository) DeleteEntry(entryID int64) error {
	query := "DELETE FROM vault_entries WHERE id = ?"
	if _, err := r.db.Exec(query, entryID); err != nil {
		return fmt.Errorf("failed to delete vault entry: %w", err)
	}
	return nil
}
