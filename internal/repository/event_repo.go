package repository

import (
	"database/sql"
	"fmt"
	"time"

	"homehub/internal/database"
	"homehub/internal/models"
)

// EventRepository handles database operations for calendar events
type EventRepository struct {
	db *database.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

// CreateEvent stores a new calendar event and returns it with joins resolved
func (r *EventRepository) CreateEvent(e *models.Event) (*models.Event, error) {
	query := `
		INSERT INTO events
			(title, date, start_time, end_time, all_day, color,
			 recurrence_type, recurrence_interval, recurrence_end, family_id, author_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	eventID, err := r.db.ExecReturningID(query,
		e.Title, e.Date, e.StartTime, e.EndTime, e.AllDay, e.Color,
		e.RecurrenceType, e.RecurrenceInterval, e.RecurrenceEnd, e.FamilyID, e.AuthorID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return r.GetEventByID(eventID)
}

// GetEventByID retrieves an event with its author's username
func (r *EventRepository) GetEventByID(eventID int64) (*models.Event, error) {
	query := `
		SELECT e.id, e.title, e.date, e.start_time, e.end_time, e.all_day, e.color,
		       e.recurrence_type, e.recurrence_interval, e.recurrence_end,
		       e.family_id, e.author_id, u.username, e.created_at
		FROM events e
		INNER JOIN users u ON e.author_id = u.id
		WHERE e.id = ?
	`
	event := &models.Event{}
	err := r.db.QueryRow(query, eventID).Scan(
		&event.ID, &event.Title, &event.Date, &event.StartTime, &event.EndTime,
		&event.AllDay, &event.Color, &event.RecurrenceType, &event.RecurrenceInterval,
		&event.RecurrenceEnd, &event.FamilyID, &event.AuthorID, &event.AuthorName,
		&event.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

// GetWindowCandidates retrieves the events that can produce occurrences in
// the given window: every repeating event (a rule begun in the past may
// still land inside the window) plus single events dated inside it.
// Bounds are inclusive.
func (r *EventRepository) GetWindowCandidates(familyID int64, start, end time.Time) ([]models.Event, error) {
	query := `
		SELECT e.id, e.title, e.date, e.start_time, e.end_time, e.all_day, e.color,
		       e.recurrence_type, e.recurrence_interval, e.recurrence_end,
		       e.family_id, e.author_id, u.username, e.created_at
		FROM events e
		INNER JOIN users u ON e.author_id = u.id
		WHERE e.family_id = ?
		  AND (e.recurrence_type != 'none' OR (e.date >= ? AND e.date <= ?))
		ORDER BY e.date, e.id
	`
	rows, err := r.db.Query(query, familyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(
			&event.ID, &event.Title, &event.Date, &event.StartTime, &event.EndTime,
			&event.AllDay, &event.Color, &event.RecurrenceType, &event.RecurrenceInterval,
			&event.RecurrenceEnd, &event.FamilyID, &event.AuthorID, &event.AuthorName,
			&event.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// UpdateEvent rewrites an event's editable fields. Edits always target the
// whole event; there are no per-occurrence overrides.
func (r *EventRepository) UpdateEvent(e *models.Event) error {
	query := `
		UPDATE events
		SET title = ?, date = ?, start_time = ?, end_time = ?, all_day = ?, color = ?,
		    recurrence_type = ?, recurrence_interval = ?, recurrence_end = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query,
		e.Title, e.Date, e.StartTime, e.EndTime, e.AllDay, e.Color,
		e.RecurrenceType, e.RecurrenceInterval, e.RecurrenceEnd, e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

// DeleteEvent removes an event and, with it, every occurrence of its series
func (r *EventRepository) DeleteEvent(eventID int64) error {
	query := "DELETE FROM events WHERE id = ?"
	if _, err := r.db.Exec(query, eventID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}
