package repository

import (
	"database/sql"
	"fmt"
	"time"

	"homehub/internal/database"
	"homehub/internal/models"
)

// ListRepository handles database operations for shopping lists and items
type ListRepository struct {
	db *database.DB
}

// NewListRepository creates a new list repository
func NewListRepository(db *database.DB) *ListRepository {
	return &ListRepository{db: db}
}

// CreateList creates a new shopping list for a family
func (r *ListRepository) CreateList(familyID int64, name string) (*models.ShoppingList, error) {
	query := "INSERT INTO shopping_lists (name, family_id) VALUES (?, ?)"
	listID, err := r.db.ExecReturningID(query, name, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}

	return &models.ShoppingList{
		ID:        listID,
		Name:      name,
		FamilyID:  familyID,
		CreatedAt: time.Now(),
	}, nil
}

// GetListByID retrieves a shopping list by ID
func (r *ListRepository) GetListByID(listID int64) (*models.ShoppingList, error) {
	query := "SELECT id, name, family_id, created_at FROM shopping_lists WHERE id = ?"
	list := &models.ShoppingList{}
	err := r.db.QueryRow(query, listID).Scan(
		&list.ID,
		&list.Name,
		&list.FamilyID,
		&list.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}
	return list, nil
}

// GetFamilyLists retrieves all shopping lists belonging to a family
func (r *ListRepository) GetFamilyLists(familyID int64) ([]models.ShoppingList, error) {
	query := "SELECT id, name, family_id, created_at FROM shopping_lists WHERE family_id = ? ORDER BY created_at"
	rows, err := r.db.Query(query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lists: %w", err)
	}
	defer rows.Close()

	var lists []models.ShoppingList
	for rows.Next() {
		var list models.ShoppingList
		if err := rows.Scan(&list.ID, &list.Name, &list.FamilyID, &list.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, list)
	}
	return lists, rows.Err()
}

// DeleteList deletes a shopping list and its items
func (r *ListRepository) DeleteList(listID int64) error {
	query := "DELETE FROM shopping_lists WHERE id = ?"
	if _, err := r.db.Exec(query, listID); err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	return nil
}

// CreateItem adds an item to a shopping list
func (r *ListRepository) CreateItem(listID, authorID int64, text string) (*models.Item, error) {
	query := "INSERT INTO items (text, list_id, author_id) VALUES (?, ?, ?)"
	itemID, err := r.db.ExecReturningID(query, text, listID, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	// Re-read so CreatedAt and AuthorName match what other clients will see
	return r.GetItemByID(itemID)
}

// GetItemByID retrieves an item with its author's username
func (r *ListRepository) GetItemByID(itemID int64) (*models.Item, error) {
	query := `
		SELECT i.id, i.text, i.done, i.list_id, i.author_id, u.username, i.created_at
		FROM items i
		INNER JOIN users u ON i.author_id = u.id
		WHERE i.id = ?
	`
	item := &models.Item{}
	err := r.db.QueryRow(query, itemID).Scan(
		&item.ID,
		&item.Text,
		&item.Done,
		&item.ListID,
		&item.AuthorID,
		&item.AuthorName,
		&item.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// GetListItems retrieves all items on a list, oldest first
func (r *ListRepository) GetListItems(listID int64) ([]models.Item, error) {
	query := `
		SELECT i.id, i.text, i.done, i.list_id, i.author_id, u.username, i.created_at
		FROM items i
		INNER JOIN users u ON i.author_id = u.id
		WHERE i.list_id = ?
		ORDER BY i.created_at, i.id
	`
	rows, err := r.db.Query(query, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(
			&item.ID, &item.Text, &item.Done, &item.ListID,
			&item.AuthorID, &item.AuthorName, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateItemText changes an item's text
func (r *ListRepository) UpdateItemText(itemID int64, text string) error {
	query := "UPDATE items SET text = ? WHERE id = ?"
	if _, err := r.db.Exec(query, text, itemID); err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	return nil
}

// SetItemDone sets an item's done flag
func (r *ListRepository) SetItemDone(itemID int64, done bool) error {
	query := "UPDATE items SET done = ? WHERE id = ?"
	if _, err := r.db.Exec(query, done, itemID); err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	return nil
}

// DeleteItem removes an item from its list
func (r *ListRepository) DeleteItem(itemID int64) error {
	query := "DELETE FROM items WHERE id = ?"
	if _, err := r.db.Exec(query, itemID); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}
