package models

import "time"

type ShoppingItem struct {
	ID          string     `json:"id"`
	FamilyID    string     `json:"family_id" validate:"required"`
	Name        string     `json:"name" validate:"required,max=100"`
	Quantity    int        `json:"quantity" validate:"gte=1"`
	Purchased   bool       `json:"purchased"`
	PurchasedBy string     `json:"purchased_by,omitempty"`
	PurchasedAt *time.Time `json:"purchased_at,omitempty"`
	AddedBy     string     `json:"added_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (i *ShoppingItem) Validate() error {
	if err := validate.Struct(i); err != nil {
		return formatValidationError("shopping item", err)
	}
	return nil
}

// TogglePurchased flips the purchased flag, recording who bought the item
// and when, or clearing both when the item is put back on the list.
func (i *ShoppingItem) TogglePurchased(memberID string, now time.Time) {
	if i.Purchased {
		i.Purchased = false
		i.PurchasedBy = ""
		i.PurchasedAt = nil
		return
	}
	i.Purchased = true
	i.PurchasedBy = memberID
	i.PurchasedAt = &now
}
