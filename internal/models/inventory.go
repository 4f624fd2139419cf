package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CategoryIngredient = "ingredient"
	CategoryOther      = "other"
)

// InventoryItem: one purchasable stock item owned by a tenant. Stock only
// changes through creation, explicit stock-add, production deduction and
// production undo.
type InventoryItem struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	UserID   string `gorm:"size:36;index;not null" json:"user_id"`
	Name     string `gorm:"size:200;not null" json:"name"`
	Category string `gorm:"size:20;not null" json:"category"` // ingredient | other
	Supplier string `gorm:"size:200" json:"supplier"`

	// Purchase reference: PurchaseCost buys PurchaseQuantity of Unit.
	PurchaseCost     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"purchase_cost"`
	PurchaseQuantity decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"purchase_quantity"`
	Unit             string          `gorm:"size:20;not null" json:"unit"`

	Stock decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"stock"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
