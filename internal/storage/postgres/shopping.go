package postgres

import (
	"fmt"

	"github.com/julianstephens/hearth/internal/models"
	"github.com/julianstephens/hearth/internal/storage"
)

const shoppingColumns = `id, family_id, name, quantity, purchased, purchased_by, purchased_at, added_by, created_at`

func scanShoppingItem(row scanner) (models.ShoppingItem, error) {
	var i models.ShoppingItem
	var purchasedAt, createdAt string
	if err := row.Scan(&i.ID, &i.FamilyID, &i.Name, &i.Quantity, &i.Purchased, &i.PurchasedBy, &purchasedAt, &i.AddedBy, &createdAt); err != nil {
		return models.ShoppingItem{}, err
	}

	var err error
	if i.PurchasedAt, err = storage.ParseOptionalTimestamp(purchasedAt); err != nil {
		return models.ShoppingItem{}, err
	}
	if i.CreatedAt, err = storage.ParseTimestamp(createdAt); err != nil {
		return models.ShoppingItem{}, err
	}
	return i, nil
}

func (s *Store) AddShoppingItem(i models.ShoppingItem) error {
	_, err := s.db.Exec(`
		INSERT INTO shopping_items (`+shoppingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		i.ID, i.FamilyID, i.Name, i.Quantity, i.Purchased, i.PurchasedBy,
		storage.FormatOptionalTimestamp(i.PurchasedAt), i.AddedBy, storage.FormatTimestamp(i.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to add shopping item: %w", err)
	}
	return nil
}

func (s *Store) GetShoppingItem(id string) (models.ShoppingItem, error) {
	row := s.db.QueryRow(`SELECT `+shoppingColumns+` FROM shopping_items WHERE id = $1`, id)
	i, err := scanShoppingItem(row)
	if err != nil {
		return models.ShoppingItem{}, notFound(err, "shopping item", id)
	}
	return i, nil
}

// ListShoppingItems returns items still to buy first, newest first within each group.
func (s *Store) ListShoppingItems(familyID string) ([]models.ShoppingItem, error) {
	rows, err := s.db.Query(`
		SELECT `+shoppingColumns+` FROM shopping_items
		WHERE family_id = $1
		ORDER BY purchased, created_at DESC`, familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.ShoppingItem
	for rows.Next() {
		i, err := scanShoppingItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

func (s *Store) UpdateShoppingItem(i models.ShoppingItem) error {
	res, err := s.db.Exec(`
		UPDATE shopping_items SET name = $1, quantity = $2, purchased = $3, purchased_by = $4, purchased_at = $5
		WHERE id = $6`,
		i.Name, i.Quantity, i.Purchased, i.PurchasedBy, storage.FormatOptionalTimestamp(i.PurchasedAt), i.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update shopping item: %w", err)
	}
	return requireAffected(res, "shopping item", i.ID)
}

func (s *Store) DeleteShoppingItem(id string) error {
	res, err := s.db.Exec(`DELETE FROM shopping_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shopping item: %w", err)
	}
	return requireAffected(res, "shopping item", id)
}
