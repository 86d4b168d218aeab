package service

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"homehub/internal/models"
	"homehub/internal/recurrence"
	"homehub/internal/repository"
	"homehub/internal/validation"
)

var (
	ErrEventNotFound  = errors.New("event not found")
	ErrWindowTooLarge = errors.New("requested window is too large")
)

// maxWindowDays bounds expansion requests to a bit over a year
const maxWindowDays = 400

// EventInput carries the user-supplied fields of a calendar event
type EventInput struct {
	Title              string
	Date               string
	StartTime          string
	EndTime            string
	AllDay             bool
	Color              string
	RecurrenceType     string
	RecurrenceInterval int
	RecurrenceEnd      string
}

// CalendarService handles calendar business logic, including expanding
// repeating events into concrete occurrences for a requested window
type CalendarService struct {
	eventRepo *repository.EventRepository
}

// NewCalendarService creates a new calendar service
func NewCalendarService(eventRepo *repository.EventRepository) *CalendarService {
	return &CalendarService{eventRepo: eventRepo}
}

// CreateEvent validates and stores a calendar event
func (s *CalendarService) CreateEvent(familyID, authorID int64, input EventInput) (*models.Event, error) {
	event, err := s.buildEvent(input)
	if err != nil {
		return nil, err
	}
	event.FamilyID = familyID
	event.AuthorID = authorID

	created, err := s.eventRepo.CreateEvent(event)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return created, nil
}

// UpdateEvent rewrites one of the family's events. Repeating events have no
// per-occurrence identity, so an update applies to the whole series.
func (s *CalendarService) UpdateEvent(familyID, eventID int64, input EventInput) (*models.Event, error) {
	existing, err := s.getFamilyEvent(familyID, eventID)
	if err != nil {
		return nil, err
	}

	event, err := s.buildEvent(input)
	if err != nil {
		return nil, err
	}
	event.ID = existing.ID
	event.FamilyID = existing.FamilyID
	event.AuthorID = existing.AuthorID

	if err := s.eventRepo.UpdateEvent(event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return s.eventRepo.GetEventByID(eventID)
}

// DeleteEvent removes one of the family's events and with it every
// occurrence of its series
func (s *CalendarService) DeleteEvent(familyID, eventID int64) (*models.Event, error) {
	event, err := s.getFamilyEvent(familyID, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.eventRepo.DeleteEvent(eventID); err != nil {
		return nil, fmt.Errorf("failed to delete event: %w", err)
	}
	return event, nil
}

// GetWindow expands the family's events into day-keyed occurrences for the
// inclusive window [start, end], both given as YYYY-MM-DD.
func (s *CalendarService) GetWindow(familyID int64, start, end string) (map[string][]recurrence.Occurrence, error) {
	startDate, err := validation.ValidateDate("start", start)
	if err != nil {
		return nil, err
	}
	endDate, err := validation.ValidateDate("end", end)
	if err != nil {
		return nil, err
	}
	if endDate.Before(startDate) {
		startDate, endDate = endDate, startDate
	}
	if endDate.Sub(startDate) > maxWindowDays*24*time.Hour {
		return nil, ErrWindowTooLarge
	}

	candidates, err := s.eventRepo.GetWindowCandidates(familyID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	return recurrence.Expand(candidates, startDate, endDate), nil
}

// buildEvent validates input and assembles an event record
func (s *CalendarService) buildEvent(input EventInput) (*models.Event, error) {
	if err := validation.ValidateRequired("title", input.Title); err != nil {
		return nil, err
	}
	date, err := validation.ValidateDate("date", input.Date)
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		Title:              input.Title,
		Date:               date,
		AllDay:             input.AllDay,
		Color:              input.Color,
		RecurrenceType:     input.RecurrenceType,
		RecurrenceInterval: input.RecurrenceInterval,
	}

	if event.RecurrenceType == "" {
		event.RecurrenceType = models.RecurrenceNone
	}
	if !event.Repeats() && event.RecurrenceType != models.RecurrenceNone {
		return nil, validation.ValidationError{Field: "recurrence_type", Message: "unknown recurrence type"}
	}
	if event.RecurrenceInterval < 1 {
		event.RecurrenceInterval = 1
	}

	if !input.AllDay && input.StartTime != "" {
		if err := validation.ValidateClockTime("start_time", input.StartTime); err != nil {
			return nil, err
		}
		event.StartTime = sql.NullString{String: input.StartTime, Valid: true}
		if input.EndTime != "" {
			if err := validation.ValidateClockTime("end_time", input.EndTime); err != nil {
				return nil, err
			}
			if input.EndTime < input.StartTime {
				return nil, validation.ValidationError{Field: "end_time", Message: "end time is before start time"}
			}
			event.EndTime = sql.NullString{String: input.EndTime, Valid: true}
		}
	}

	if input.RecurrenceEnd != "" && event.Repeats() {
		recEnd, err := validation.ValidateDate("recurrence_end", input.RecurrenceEnd)
		if err != nil {
			return nil, err
		}
		if recEnd.Before(date) {
			return nil, validation.ValidationError{Field: "recurrence_end", Message: "series end is before the first occurrence"}
		}
		event.RecurrenceEnd = sql.NullTime{Time: recEnd, Valid: true}
	}
	return event, nil
}

// getFamilyEvent fetches an event and verifies it belongs to the family
func (s *CalendarService) getFamilyEvent(familyID, eventID int64) (*models.Event, error) {
	event, err := s.eventRepo.GetEventByID(eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil || event.FamilyID != familyID {
		return nil, ErrEventNotFound
	}
	return event, nil
}
