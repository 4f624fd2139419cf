package models

import "time"

// UserSettings: one row per tenant. VatRate is kept as the raw percentage
// string the tenant entered ("" means unset).
type UserSettings struct {
	UserID    string    `gorm:"primaryKey;size:36" json:"user_id"`
	VatRate   string    `gorm:"size:20" json:"vat_rate"`
	Currency  string    `gorm:"size:10" json:"currency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
