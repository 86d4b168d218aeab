package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"homehub/internal/models"
	"homehub/internal/repository"
	"homehub/internal/validation"
)

var (
	ErrFamilyNotFound   = errors.New("family not found")
	ErrNotFamilyMember  = errors.New("not a member of this family")
	ErrNotFamilyOwner   = errors.New("only the family owner can do this")
	ErrAlreadyMember    = errors.New("user is already a member")
	ErrUserNotFound     = errors.New("user not found")
	ErrOwnerCannotLeave = errors.New("the owner cannot leave their own family")
	ErrPermissionDenied = errors.New("permission denied")
)

// FamilyService handles family lifecycle and membership business logic
type FamilyService struct {
	familyRepo *repository.FamilyRepository
	userRepo   *repository.UserRepository
	email      *EmailService
}

// NewFamilyService creates a new family service
func NewFamilyService(familyRepo *repository.FamilyRepository, userRepo *repository.UserRepository, email *EmailService) *FamilyService {
	return &FamilyService{
		familyRepo: familyRepo,
		userRepo:   userRepo,
		email:      email,
	}
}

// CreateFamily creates a family with the creator as owner and first member
func (s *FamilyService) CreateFamily(name string, ownerID int64) (*models.Family, error) {
	if err := validation.ValidateRequired("name", name); err != nil {
		return nil, err
	}
	family, err := s.familyRepo.CreateFamily(name, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to create family: %w", err)
	}
	return family, nil
}

// GetUserFamilies lists the families a user belongs to
func (s *FamilyService) GetUserFamilies(userID int64) ([]models.Family, error) {
	return s.familyRepo.GetUserFamilies(userID)
}

// IsMember reports whether a user currently belongs to a family
func (s *FamilyService) IsMember(userID, familyID int64) (bool, error) {
	return s.familyRepo.IsFamilyMember(userID, familyID)
}

// IsOwner reports whether a user owns a family
func (s *FamilyService) IsOwner(userID, familyID int64) (bool, error) {
	family, err := s.familyRepo.GetFamilyByID(familyID)
	if err != nil {
		return false, fmt.Errorf("failed to get family: %w", err)
	}
	if family == nil {
		return false, ErrFamilyNotFound
	}
	return family.IsOwner(userID), nil
}

// SelectFamily records a family as the session's active one after checking
// the user still belongs to it
func (s *FamilyService) SelectFamily(sessionID string, userID, familyID int64) (*models.Family, error) {
	ok, err := s.familyRepo.IsFamilyMember(userID, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !ok {
		return nil, ErrNotFamilyMember
	}

	family, err := s.familyRepo.GetFamilyByID(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	if family == nil {
		return nil, ErrFamilyNotFound
	}

	if err := s.userRepo.SetSessionFamily(sessionID, &familyID); err != nil {
		return nil, fmt.Errorf("failed to select family: %w", err)
	}
	return family, nil
}

// ClearFamilySelection drops the session's active family
func (s *FamilyService) ClearFamilySelection(sessionID string) error {
	if err := s.userRepo.SetSessionFamily(sessionID, nil); err != nil {
		return fmt.Errorf("failed to clear family selection: %w", err)
	}
	return nil
}

// GetFamilyMembers lists a family's members in join order
func (s *FamilyService) GetFamilyMembers(familyID int64) ([]models.User, error) {
	return s.familyRepo.GetFamilyMembers(familyID)
}

// GetInviteableUsers lists users not yet in the family
func (s *FamilyService) GetInviteableUsers(familyID int64) ([]models.User, error) {
	return s.userRepo.GetInviteableUsers(familyID)
}

// InviteUser adds an existing user to a family by username. Notification
// email is best-effort: the membership stands even if sending fails.
func (s *FamilyService) InviteUser(ctx context.Context, familyID, inviterID int64, username string) (*models.User, error) {
	family, err := s.familyRepo.GetFamilyByID(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	if family == nil {
		return nil, ErrFamilyNotFound
	}

	user, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	already, err := s.familyRepo.IsFamilyMember(user.ID, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if already {
		return nil, ErrAlreadyMember
	}

	if err := s.familyRepo.AddFamilyMember(familyID, user.ID); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	if s.email != nil && s.email.IsEnabled() && user.Email != "" {
		inviter, err := s.userRepo.GetUserByID(inviterID)
		inviterName := "Someone"
		if err == nil && inviter != nil {
			inviterName = inviter.Username
		}
		if err := s.email.SendFamilyInviteEmail(ctx, user.Email, user.Username, family.Name, inviterName); err != nil {
			log.Printf("Failed to send invite email to %s: %v", user.Email, err)
		}
	}
	return user, nil
}

// RemoveMember removes a user from a family. The owner can remove anyone
// but themselves; other members can only remove themselves.
func (s *FamilyService) RemoveMember(familyID, requesterID, userID int64) error {
	family, err := s.familyRepo.GetFamilyByID(familyID)
	if err != nil {
		return fmt.Errorf("failed to get family: %w", err)
	}
	if family == nil {
		return ErrFamilyNotFound
	}

	if family.IsOwner(userID) {
		return ErrOwnerCannotLeave
	}
	if requesterID != userID && !family.IsOwner(requesterID) {
		return ErrNotFamilyOwner
	}

	if err := s.familyRepo.RemoveFamilyMember(familyID, userID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

// DeleteFamily removes a family and everything scoped to it. Owner only.
func (s *FamilyService) DeleteFamily(familyID, requesterID int64) error {
	family, err := s.familyRepo.GetFamilyByID(familyID)
	if err != nil {
		return fmt.Errorf("failed to get family: %w", err)
	}
	if family == nil {
		return ErrFamilyNotFound
	}
	if !family.IsOwner(requesterID) {
		return ErrNotFamilyOwner
	}

	if err := s.familyRepo.DeleteFamily(familyID); err != nil {
		return fmt.Errorf("failed to delete family: %w", err)
	}
	return nil
}
