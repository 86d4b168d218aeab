package service

import (
	"errors"
	"testing"
	"time"

	"homehub/internal/repository"
)

func TestBoardSweepsOldUnpinnedNotes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database integration test")
	}

	db := newTestDB(t)
	familyID, memberIDs := seedFamily(t, db, 1)
	authorID := memberIDs[0]

	noteRepo := repository.NewNoteRepository(db)
	svc := NewNoteService(noteRepo)

	oldPinned, err := svc.AddNote(familyID, authorID, "WiFi password on the fridge")
	if err != nil {
		t.Fatalf("failed to add note: %v", err)
	}
	if _, err := svc.TogglePin(familyID, oldPinned.ID); err != nil {
		t.Fatalf("failed to pin note: %v", err)
	}
	oldUnpinned, err := svc.AddNote(familyID, authorID, "Dentist moved to Tuesday")
	if err != nil {
		t.Fatalf("failed to add note: %v", err)
	}
	fresh, err := svc.AddNote(familyID, authorID, "Out of milk")
	if err != nil {
		t.Fatalf("failed to add note: %v", err)
	}

	// A board read far in the future must drop only the unpinned stale note
	future := time.Now().Add(noteRetention + 24*time.Hour)
	notes, err := svc.Board(familyID, future)
	if err != nil {
		t.Fatalf("Board failed: %v", err)
	}

	// fresh is also stale from the future's point of view; only the pinned
	// note survives
	for _, note := range notes {
		if note.ID == oldUnpinned.ID || note.ID == fresh.ID {
			t.Errorf("unpinned note %d survived past retention", note.ID)
		}
	}
	found := false
	for _, note := range notes {
		if note.ID == oldPinned.ID {
			found = true
		}
	}
	if !found {
		t.Error("pinned note was swept")
	}

	// A read at the present keeps everything that is left
	notes, err = svc.Board(familyID, time.Now())
	if err != nil {
		t.Fatalf("Board failed: %v", err)
	}
	if len(notes) != 1 {
		t.Errorf("expected 1 remaining note, got %d", len(notes))
	}
}

func TestBoardOrdersPinnedFirst(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database integration test")
	}

	db := newTestDB(t)
	familyID, memberIDs := seedFamily(t, db, 1)
	authorID := memberIDs[0]

	svc := NewNoteService(repository.NewNoteRepository(db))

	first, err := svc.AddNote(familyID, authorID, "first")
	if err != nil {
		t.Fatalf("failed to add note: %v", err)
	}
	if _, err := svc.AddNote(familyID, authorID, "second"); err != nil {
		t.Fatalf("failed to add note: %v", err)
	}
	if _, err := svc.TogglePin(familyID, first.ID); err != nil {
		t.Fatalf("failed to pin note: %v", err)
	}

	notes, err := svc.Board(familyID, time.Now())
	if err != nil {
		t.Fatalf("Board failed: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(notes))
	}
	if notes[0].ID != first.ID || !notes[0].Pinned {
		t.Errorf("expected the pinned note first, got note %d", notes[0].ID)
	}
}

func TestNoteFamilyScoping(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database integration test")
	}

	db := newTestDB(t)
	familyID, memberIDs := seedFamily(t, db, 1)

	svc := NewNoteService(repository.NewNoteRepository(db))
	note, err := svc.AddNote(familyID, memberIDs[0], "ours")
	if err != nil {
		t.Fatalf("failed to add note: %v", err)
	}

	otherFamily := familyID + 100
	if _, err := svc.DeleteNote(otherFamily, note.ID, memberIDs[0]); !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("expected ErrNoteNotFound for another family, got %v", err)
	}
	if _, err := svc.TogglePin(otherFamily, note.ID); !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("expected ErrNoteNotFound for another family, got %v", err)
	}
}

func TestNoteDeleteIsAuthorOnly(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database integration test")
	}

	db := newTestDB(t)
	familyID, memberIDs := seedFamily(t, db, 2)
	author, other := memberIDs[0], memberIDs[1]

	svc := NewNoteService(repository.NewNoteRepository(db))
	note, err := svc.AddNote(familyID, author, "mine")
	if err != nil {
		t.Fatalf("failed to add note: %v", err)
	}

	if _, err := svc.DeleteNote(familyID, note.ID, other); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied for a non-author, got %v", err)
	}
	if _, err := svc.DeleteNote(familyID, note.ID, author); err != nil {
		t.Errorf("author delete failed: %v", err)
	}
}
