package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"homehub/internal/models"
	"homehub/internal/repository"
	"homehub/internal/validation"
)

var ErrNoteNotFound = errors.New("note not found")

// noteRetention is how long unpinned notes stay on the board
const noteRetention = 30 * 24 * time.Hour

// NoteService handles the family bulletin board. Unpinned notes expire
// after a month; pinned ones stay until removed.
type NoteService struct {
	noteRepo *repository.NoteRepository
}

// NewNoteService creates a new note service
func NewNoteService(noteRepo *repository.NoteRepository) *NoteService {
	return &NoteService{noteRepo: noteRepo}
}

// Board returns the family's notes, sweeping expired unpinned ones first.
// The sweep is best-effort: a failed delete still shows the board.
func (s *NoteService) Board(familyID int64, now time.Time) ([]models.Note, error) {
	cutoff := now.Add(-noteRetention)
	if err := s.noteRepo.DeleteUnpinnedBefore(familyID, cutoff); err != nil {
		log.Printf("Note sweep failed for family %d: %v", familyID, err)
	}
	return s.noteRepo.GetBoardNotes(familyID)
}

// AddNote posts a note to the board
func (s *NoteService) AddNote(familyID, authorID int64, content string) (*models.Note, error) {
	if err := validation.ValidateRequired("content", content); err != nil {
		return nil, err
	}
	note, err := s.noteRepo.CreateNote(familyID, authorID, content)
	if err != nil {
		return nil, fmt.Errorf("failed to add note: %w", err)
	}
	return note, nil
}

// TogglePin flips a note's pinned flag
func (s *NoteService) TogglePin(familyID, noteID int64) (*models.Note, error) {
	note, err := s.getFamilyNote(familyID, noteID)
	if err != nil {
		return nil, err
	}
	note.Pinned = !note.Pinned
	if err := s.noteRepo.SetPinned(noteID, note.Pinned); err != nil {
		return nil, fmt.Errorf("failed to pin note: %w", err)
	}
	return note, nil
}

// DeleteNote removes a note from the board. Only the author can delete
// their own note.
func (s *NoteService) DeleteNote(familyID, noteID, requesterID int64) (*models.Note, error) {
	note, err := s.getFamilyNote(familyID, noteID)
	if err != nil {
		return nil, err
	}
	if note.AuthorID != requesterID {
		return nil, ErrPermissionDenied
	}
	if err := s.noteRepo.DeleteNote(noteID); err != nil {
		return nil, fmt.Errorf("failed to delete note: %w", err)
	}
	return note, nil
}

func (s *NoteService) getFamilyNote(familyID, noteID int64) (*models.Note, error) {
	note, err := s.noteRepo.GetNoteByID(noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	if note == nil || note.FamilyID != familyID {
		return nil, ErrNoteNotFound
	}
	return note, nil
}
