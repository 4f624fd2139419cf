package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Recipe struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	UserID       string `gorm:"size:36;index;not null" json:"user_id"`
	Name         string `gorm:"size:200;not null" json:"name"`
	Instructions string `gorm:"type:text" json:"instructions"`
	Image        string `gorm:"type:text" json:"image"` // data URI

	// Pricing inputs. TargetMargin is a percentage and must stay below 100:
	// it is used as the denominator term 1 - margin/100.
	TargetMargin decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"target_margin"`
	HasVat       bool            `gorm:"not null;default:false" json:"has_vat"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []RecipeItem `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// RecipeItem binds a recipe to one inventory item with the quantity required
// per single unit of recipe produced.
type RecipeItem struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	RecipeID    string          `gorm:"size:36;index;not null" json:"recipe_id"`
	InventoryID string          `gorm:"size:36;not null" json:"inventory_id"`
	Inventory   *InventoryItem  `gorm:"foreignKey:InventoryID;constraint:OnDelete:CASCADE" json:"inventory,omitempty"`
	Quantity    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"quantity"`
}
