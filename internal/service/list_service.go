package service

import (
	"errors"
	"fmt"

	"homehub/internal/models"
	"homehub/internal/repository"
	"homehub/internal/validation"
)

var (
	ErrListNotFound = errors.New("list not found")
	ErrItemNotFound = errors.New("item not found")
)

// ListService handles shopping list business logic. Every operation takes
// the acting family's ID and refuses to touch lists owned by anyone else.
type ListService struct {
	listRepo *repository.ListRepository
}

// NewListService creates a new list service
func NewListService(listRepo *repository.ListRepository) *ListService {
	return &ListService{listRepo: listRepo}
}

// CreateList creates a shopping list for a family
func (s *ListService) CreateList(familyID int64, name string) (*models.ShoppingList, error) {
	if err := validation.ValidateRequired("name", name); err != nil {
		return nil, err
	}
	list, err := s.listRepo.CreateList(familyID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}
	return list, nil
}

// GetFamilyLists lists a family's shopping lists
func (s *ListService) GetFamilyLists(familyID int64) ([]models.ShoppingList, error) {
	return s.listRepo.GetFamilyLists(familyID)
}

// GetList retrieves one of the family's lists together with its items
func (s *ListService) GetList(familyID, listID int64) (*models.ShoppingList, []models.Item, error) {
	list, err := s.getFamilyList(familyID, listID)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.listRepo.GetListItems(listID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get items: %w", err)
	}
	return list, items, nil
}

// DeleteList removes one of the family's lists and its items
func (s *ListService) DeleteList(familyID, listID int64) error {
	if _, err := s.getFamilyList(familyID, listID); err != nil {
		return err
	}
	if err := s.listRepo.DeleteList(listID); err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	return nil
}

// AddItem appends an item to one of the family's lists
func (s *ListService) AddItem(familyID, listID, authorID int64, text string) (*models.Item, error) {
	if err := validation.ValidateRequired("text", text); err != nil {
		return nil, err
	}
	if _, err := s.getFamilyList(familyID, listID); err != nil {
		return nil, err
	}
	item, err := s.listRepo.CreateItem(listID, authorID, text)
	if err != nil {
		return nil, fmt.Errorf("failed to add item: %w", err)
	}
	return item, nil
}

// EditItem rewrites an item's text
func (s *ListService) EditItem(familyID, itemID int64, text string) (*models.Item, error) {
	if err := validation.ValidateRequired("text", text); err != nil {
		return nil, err
	}
	item, err := s.getFamilyItem(familyID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.listRepo.UpdateItemText(itemID, text); err != nil {
		return nil, fmt.Errorf("failed to edit item: %w", err)
	}
	item.Text = text
	return item, nil
}

// ToggleItem flips an item's done flag and returns the new state
func (s *ListService) ToggleItem(familyID, itemID int64) (*models.Item, error) {
	item, err := s.getFamilyItem(familyID, itemID)
	if err != nil {
		return nil, err
	}
	item.Done = !item.Done
	if err := s.listRepo.SetItemDone(itemID, item.Done); err != nil {
		return nil, fmt.Errorf("failed to toggle item: %w", err)
	}
	return item, nil
}

// DeleteItem removes an item, returning the deleted record so callers can
// announce which list it left
func (s *ListService) DeleteItem(familyID, itemID int64) (*models.Item, error) {
	item, err := s.getFamilyItem(familyID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.listRepo.DeleteItem(itemID); err != nil {
		return nil, fmt.Errorf("failed to delete item: %w", err)
	}
	return item, nil
}

// getFamilyList fetches a list and verifies it belongs to the family
func (s *ListService) getFamilyList(familyID, listID int64) (*models.ShoppingList, error) {
	list, err := s.listRepo.GetListByID(listID)
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}
	if list == nil || list.FamilyID != familyID {
		return nil, ErrListNotFound
	}
	return list, nil
}

// getFamilyItem fetches an item and verifies its list belongs to the family
func (s *ListService) getFamilyItem(familyID, itemID int64) (*models.Item, error) {
	item, err := s.listRepo.GetItemByID(itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	list, err := s.listRepo.GetListByID(item.ListID)
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}
	if list == nil || list.FamilyID != familyID {
		return nil, ErrItemNotFound
	}
	return item, nil
}
