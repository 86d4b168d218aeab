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

var (
	ErrChoreNotFound      = errors.New("chore not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrAlreadyGenerated   = errors.New("assignments already generated for this week")
	ErrNoChoresDue        = errors.New("no chores are due this week")
	ErrNoMembers          = errors.New("family has no members to assign chores to")
)

// generationLeewayDays lets a chore come due a little early so that, for
// example, a 7-day chore generated every Monday does not slip a week when
// months are not exact multiples of its frequency.
const generationLeewayDays = 3

// assignmentRetention is how long completed weeks stay around before the
// best-effort sweep reclaims them
const assignmentRetention = 28 * 24 * time.Hour

// ChoreService handles the chore bank and the weekly rotation that assigns
// due chores to family members
type ChoreService struct {
	choreRepo  *repository.ChoreRepository
	familyRepo *repository.FamilyRepository
}

// NewChoreService creates a new chore service
func NewChoreService(choreRepo *repository.ChoreRepository, familyRepo *repository.FamilyRepository) *ChoreService {
	return &ChoreService{choreRepo: choreRepo, familyRepo: familyRepo}
}

// WeekAnchor returns the Monday of the week containing t, at UTC midnight.
// Every weekly structure (assignments, meal plans) is keyed by this date.
func WeekAnchor(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return t.AddDate(0, 0, 1-weekday)
}

// CreateChore adds a chore to the family's bank
func (s *ChoreService) CreateChore(familyID int64, name string, points, frequencyDays int) (*models.Chore, error) {
	if err := validation.ValidateRequired("name", name); err != nil {
		return nil, err
	}
	if points < 1 {
		points = 5
	}
	if frequencyDays < 1 {
		frequencyDays = 7
	}
	chore, err := s.choreRepo.CreateChore(familyID, name, points, frequencyDays)
	if err != nil {
		return nil, fmt.Errorf("failed to create chore: %w", err)
	}
	return chore, nil
}

// GetFamilyChores lists the family's chore bank
func (s *ChoreService) GetFamilyChores(familyID int64) ([]models.Chore, error) {
	return s.choreRepo.GetFamilyChores(familyID)
}

// DeleteChore removes one of the family's chores
func (s *ChoreService) DeleteChore(familyID, choreID int64) error {
	chore, err := s.choreRepo.GetChoreByID(choreID)
	if err != nil {
		return fmt.Errorf("failed to get chore: %w", err)
	}
	if chore == nil || chore.FamilyID != familyID {
		return ErrChoreNotFound
	}
	if err := s.choreRepo.DeleteChore(choreID); err != nil {
		return fmt.Errorf("failed to delete chore: %w", err)
	}
	return nil
}

// GetWeekAssignments returns the family's assignments for the week
// containing now
func (s *ChoreService) GetWeekAssignments(familyID int64, now time.Time) ([]models.ChoreAssignment, error) {
	return s.choreRepo.GetWeekAssignments(familyID, WeekAnchor(now))
}

// Generate runs the weekly rotation for the week containing now. It is
// idempotent per family and week: a second call returns ErrAlreadyGenerated
// and changes nothing. The whole run persists atomically.
func (s *ChoreService) Generate(familyID int64, now time.Time) ([]models.ChoreAssignment, error) {
	weekOf := WeekAnchor(now)

	exists, err := s.choreRepo.HasAssignmentsForWeek(familyID, weekOf)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing assignments: %w", err)
	}
	if exists {
		return nil, ErrAlreadyGenerated
	}

	members, err := s.familyRepo.GetFamilyMembers(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	if len(members) == 0 {
		return nil, ErrNoMembers
	}

	chores, err := s.choreRepo.GetFamilyChores(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chores: %w", err)
	}

	var due []models.Chore
	for _, chore := range chores {
		if choreIsDue(&chore, weekOf) {
			due = append(due, chore)
		}
	}
	if len(due) == 0 {
		return nil, ErrNoChoresDue
	}

	// Offsetting the member index by the ISO week number rotates who gets
	// the first due chore from week to week.
	_, isoWeek := weekOf.ISOWeek()
	assignments := make([]models.ChoreAssignment, 0, len(due))
	for i, chore := range due {
		member := members[(i+isoWeek)%len(members)]
		assignments = append(assignments, models.ChoreAssignment{
			ChoreID:  chore.ID,
			UserID:   member.ID,
			FamilyID: familyID,
			WeekOf:   weekOf,
		})
	}

	if err := s.choreRepo.CreateAssignmentsBatch(assignments, weekOf); err != nil {
		return nil, fmt.Errorf("failed to persist assignments: %w", err)
	}
	return s.choreRepo.GetWeekAssignments(familyID, weekOf)
}

// choreIsDue decides whether a chore participates in a generation run. A
// never-generated chore is always due; otherwise enough of its frequency
// must have elapsed since the last run, minus a few days of leeway. The
// gap is measured anchor to anchor, so a run stamped any day of a week
// counts as that week's Monday and due-ness depends only on the week.
func choreIsDue(chore *models.Chore, weekOf time.Time) bool {
	if !chore.LastGenerated.Valid {
		return true
	}
	elapsed := weekOf.Sub(WeekAnchor(chore.LastGenerated.Time))
	required := time.Duration(chore.FrequencyDays-generationLeewayDays) * 24 * time.Hour
	return elapsed >= required
}

// ToggleAssignment flips an assignment's completion flag. Members can
// toggle their own chores; the owner can toggle anyone's.
func (s *ChoreService) ToggleAssignment(familyID, assignmentID, requesterID int64) (*models.ChoreAssignment, error) {
	assignment, err := s.choreRepo.GetAssignmentByID(assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	if assignment == nil || assignment.FamilyID != familyID {
		return nil, ErrAssignmentNotFound
	}

	if assignment.UserID != requesterID {
		family, err := s.familyRepo.GetFamilyByID(familyID)
		if err != nil {
			return nil, fmt.Errorf("failed to get family: %w", err)
		}
		if family == nil || !family.IsOwner(requesterID) {
			return nil, ErrPermissionDenied
		}
	}

	assignment.Complete = !assignment.Complete
	if err := s.choreRepo.SetAssignmentComplete(assignmentID, assignment.Complete); err != nil {
		return nil, fmt.Errorf("failed to toggle assignment: %w", err)
	}
	return assignment, nil
}

// RetentionSweep deletes assignment weeks older than the retention window.
// Best-effort: failures are logged and never surfaced to the caller.
func (s *ChoreService) RetentionSweep(familyID int64, now time.Time) {
	cutoff := WeekAnchor(now).Add(-assignmentRetention)
	if err := s.choreRepo.DeleteAssignmentsBefore(familyID, cutoff); err != nil {
		log.Printf("Retention sweep failed for family %d: %v", familyID, err)
	}
}
