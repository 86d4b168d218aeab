package repository

import (
	"database/sql"
	"fmt"
	"time"

	"homehub/internal/database"
	"homehub/internal/models"
)

// NoteRepository handles database operations for bulletin board notes
type NoteRepository struct {
	db *database.DB
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(db *database.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// CreateNote pins a new note to the family's bulletin board
func (r *NoteRepository) CreateNote(familyID, authorID int64, content string) (*models.Note, error) {
	query := "INSERT INTO notes (content, family_id, author_id) VALUES (?, ?, ?)"
	noteID, err := r.db.ExecReturningID(query, content, familyID, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	return r.GetNoteByID(noteID)
}

// GetNoteByID retrieves a note with its author's username
func (r *NoteRepository) GetNoteByID(noteID int64) (*models.Note, error) {
	query := `
		SELECT n.id, n.content, n.pinned, n.family_id, n.author_id, u.username, n.created_at
		FROM notes n
		INNER JOIN users u ON n.author_id = u.id
		WHERE n.id = ?
	`
	note := &models.Note{}
	err := r.db.QueryRow(query, noteID).Scan(
		&note.ID, &note.Content, &note.Pinned, &note.FamilyID,
		&note.AuthorID, &note.AuthorName, &note.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return note, nil
}

// GetBoardNotes retrieves a family's notes, pinned first, newest first
func (r *NoteRepository) GetBoardNotes(familyID int64) ([]models.Note, error) {
	query := `
		SELECT n.id, n.content, n.pinned, n.family_id, n.author_id, u.username, n.created_at
		FROM notes n
		INNER JOIN users u ON n.author_id = u.id
		WHERE n.family_id = ?
		ORDER BY n.pinned DESC, n.created_at DESC, n.id DESC
	`
	rows, err := r.db.Query(query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(
			&note.ID, &note.Content, &note.Pinned, &note.FamilyID,
			&note.AuthorID, &note.AuthorName, &note.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

// SetPinned sets a note's pinned flag
func (r *NoteRepository) SetPinned(noteID int64, pinned bool) error {
	query := "UPDATE notes SET pinned = ? WHERE id = ?"
	if _, err := r.db.Exec(query, pinned, noteID); err != nil {
		return fmt.Errorf("failed to pin note: %w", err)
	}
	return nil
}

// DeleteNote removes a note
func (r *NoteRepository) DeleteNote(noteID int64) error {
	query := "DELETE FROM notes WHERE id = ?"
	if _, err := r.db.Exec(query, noteID); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}

// DeleteUnpinnedBefore removes a family's unpinned notes created before the
// cutoff. Pinned notes are never garbage-collected.
func (r *NoteRepository) DeleteUnpinnedBefore(familyID int64, cutoff time.Time) error {
	query := "DELETE FROM notes WHERE family_id = ? AND pinned = ? AND created_at < ?"
	if _, err := r.db.Exec(query, familyID, false, cutoff); err != nil {
		return fmt.Errorf("failed to delete old notes: %w", err)
	}
	return nil
}
