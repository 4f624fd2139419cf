package admin

import (
	"bakehouse-backend/internal/auth"
	"bakehouse-backend/internal/database"
	"bakehouse-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type dashboardStats struct {
	TotalUsers    int64 `json:"total_users"`
	ActiveUsers   int64 `json:"active_users"`
	BannedUsers   int64 `json:"banned_users"`
	VerifiedUsers int64 `json:"verified_users"`

	// superadmin only
	TotalAccounts  *int64 `json:"total_accounts,omitempty"`
	TotalAdmins    *int64 `json:"total_admins,omitempty"`
	ActiveAccounts *int64 `json:"active_accounts,omitempty"`
	BannedAccounts *int64 `json:"banned_accounts,omitempty"`
}

// GET /api/admin/stats — user counts for the admin dashboard. "Users" counts
// only business accounts; superadmins additionally see platform-wide account
// totals.
func StatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var stats dashboardStats

		if err := database.DB.Model(&models.User{}).
			Where("role = ?", models.RoleUser).
			Count(&stats.TotalUsers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load stats")
		}
		database.DB.Model(&models.User{}).Where("role = ? AND banned = false", models.RoleUser).Count(&stats.ActiveUsers)
		database.DB.Model(&models.User{}).Where("role = ? AND banned = true", models.RoleUser).Count(&stats.BannedUsers)
		database.DB.Model(&models.User{}).Where("role = ? AND email_verified = true", models.RoleUser).Count(&stats.VerifiedUsers)

		role, _ := c.Locals(auth.CtxUserRoleKey).(models.UserRole)
		if role == models.RoleSuperAdmin {
			var total, admins, active, banned int64
			database.DB.Model(&models.User{}).Count(&total)
			database.DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins)
			database.DB.Model(&models.User{}).Where("banned = false").Count(&active)
			database.DB.Model(&models.User{}).Where("banned = true").Count(&banned)
			stats.TotalAccounts = &total
			stats.TotalAdmins = &admins
			stats.ActiveAccounts = &active
			stats.BannedAccounts = &banned
		}

		return c.JSON(stats)
	}
}
