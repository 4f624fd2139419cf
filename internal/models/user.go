package models

import "time"

type UserRole string

const (
	RoleUser       UserRole = "user"
	RoleAdmin      UserRole = "admin"
	RoleSuperAdmin UserRole = "superadmin"
)

type User struct {
	ID            string   `gorm:"primaryKey;size:36" json:"id"`
	Name          string   `gorm:"size:100;not null" json:"name"`
	Email         string   `gorm:"size:100;uniqueIndex;not null" json:"email"`
	EmailVerified bool     `gorm:"default:false" json:"email_verified"`
	PasswordHash  string   `gorm:"size:255;not null" json:"-"`
	Role          UserRole `gorm:"size:20;not null;default:user" json:"role"`

	// Business profile (one tenant per user account)
	BusinessName  string     `gorm:"size:200" json:"business_name"`
	Plan          string     `gorm:"size:50;default:free" json:"plan"`
	PlanExpiresAt *time.Time `json:"plan_expires_at"`

	// Moderation
	Banned     bool       `gorm:"default:false" json:"banned"`
	BanReason  string     `gorm:"size:255" json:"ban_reason"`
	BanExpires *time.Time `json:"ban_expires"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
