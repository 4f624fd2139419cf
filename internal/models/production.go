package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductionLog records one produced recipe within a batch. RecipeName and
// quantity are captured at production time so the log stays accurate after
// the recipe is renamed or deleted (RecipeID goes NULL on delete).
type ProductionLog struct {
	ID         string          `gorm:"primaryKey;size:36" json:"id"`
	UserID     string          `gorm:"size:36;index;not null" json:"user_id"`
	RecipeID   *string         `gorm:"size:36" json:"recipe_id"`
	Recipe     *Recipe         `gorm:"foreignKey:RecipeID;constraint:OnDelete:SET NULL" json:"-"`
	RecipeName string          `gorm:"size:200;not null" json:"recipe_name"`
	Quantity   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"quantity"`
	CreatedAt  time.Time       `json:"created_at"`

	Items []ProductionLogItem `gorm:"foreignKey:ProductionLogID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// ProductionLogItem is an immutable value snapshot of one deduction, never a
// live reference: name and unit are denormalized so history survives inventory
// renames and deletes.
type ProductionLogItem struct {
	ID               string          `gorm:"primaryKey;size:36" json:"id"`
	ProductionLogID  string          `gorm:"size:36;index;not null" json:"production_log_id"`
	InventoryID      *string         `gorm:"size:36" json:"inventory_id"`
	Inventory        *InventoryItem  `gorm:"foreignKey:InventoryID;constraint:OnDelete:SET NULL" json:"-"`
	InventoryName    string          `gorm:"size:200;not null" json:"inventory_name"`
	Unit             string          `gorm:"size:20;not null" json:"unit"`
	QuantityDeducted decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"quantity_deducted"`
}
