package service

import (
	"errors"
	"fmt"

	"homehub/internal/models"
	"homehub/internal/repository"
	"homehub/internal/validation"
)

var ErrVaultEntryNotFound = errors.New("vault entry not found")

// VaultService handles the family's shared credential and reference vault.
// Entries are plain records scoped to the family; access control is the
// membership guard, not per-entry permissions.
type VaultService struct {
	vaultRepo *repository.VaultRepository
}

// NewVaultService creates a new vault service
func NewVaultService(vaultRepo *repository.VaultRepository) *VaultService {
	return &VaultService{vaultRepo: vaultRepo}
}

// GetEntries lists the family's vault grouped by category
func (s *VaultService) GetEntries(familyID int64) ([]models.VaultEntry, error) {
	return s.vaultRepo.GetFamilyEntries(familyID)
}

// AddEntry stores a new vault entry
func (s *VaultService) AddEntry(familyID, authorID int64, category, title, content string) (*models.VaultEntry, error) {
	if err := validation.ValidateRequired("title", title); err != nil {
		return nil, err
	}
	if err := validation.ValidateRequired("content", content); err != nil {
		return nil, err
	}
	if category == "" {
		category = "general"
	}
	entry, err := s.vaultRepo.CreateEntry(familyID, authorID, category, title, content)
	if err != nil {
		return nil, fmt.Errorf("failed to add vault entry: %w", err)
	}
	return entry, nil
}

// UpdateEntry rewrites a vault entry, recording the editor as its author
func (s *VaultService) UpdateEntry(familyID, entryID, editorID int64, category, title, content string) (*models.VaultEntry, error) {
	if _, err := s.getFamilyEntry(familyID, entryID); err != nil {
		return nil, err
	}
	if err := validation.ValidateRequired("title", title); err != nil {
		return nil, err
	}
	if err := validation.ValidateRequired("content", content); err != nil {
		return nil, err
	}
	if category == "" {
		category = "general"
	}
	if err := s.vaultRepo.UpdateEntry(entryID, editorID, category, title, content); err != nil {
		return nil, fmt.Errorf("failed to update vault entry: %w", err)
	}
	return s.vaultRepo.GetEntryByID(entryID)
}

// DeleteEntry removes a vault entry
func (s *VaultService) DeleteEntry(familyID, entryID int64) error {
	if _, err := s.getFamilyEntry(familyID, entryID); err != nil {
		return err
	}
	if err := s.vaultRepo.DeleteEntry(entryID); err != nil {
		return fmt.Errorf("failed to delete vault entry: %w", err)
	}
	return nil
}

func (s *VaultService) getFamilyEntry(familyID, entryID int64) (*models.VaultEntry, error) {
	entry, err := s.vaultRepo.GetEntryByID(entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get vault entry: %w", err)
	}
	if entry == nil || entry.FamilyID != familyID {
		return nil, ErrVaultEntryNotFound
	}
	return entry, nil
}
