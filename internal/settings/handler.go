package settings

import (
	"strings"

	"bakehouse-backend/internal/auth"
	"bakehouse-backend/internal/database"
	"bakehouse-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

type settingsRequest struct {
	VatRate  string `json:"vat_rate"`
	Currency string `json:"currency"`
}

type settingsResponse struct {
	VatRate  string `json:"vat_rate"`
	Currency string `json:"currency"`
}

// GET /api/settings — returns empty strings when the tenant never saved
// settings.
func GetSettingsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var settings models.UserSettings
		if err := database.DB.First(&settings, "user_id = ?", userID).Error; err != nil {
			return c.JSON(settingsResponse{VatRate: "", Currency: ""})
		}

		return c.JSON(settingsResponse{VatRate: settings.VatRate, Currency: settings.Currency})
	}
}

// PUT /api/settings — single-row-per-tenant upsert on user_id.
func UpdateSettingsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body settingsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.VatRate = strings.TrimSpace(body.VatRate)
		if body.VatRate != "" {
			rate, err := decimal.NewFromString(body.VatRate)
			if err != nil || rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
				return fiber.NewError(fiber.StatusBadRequest, "VAT rate must be between 0 and 100")
			}
		}
		if len(body.Currency) > 10 {
			return fiber.NewError(fiber.StatusBadRequest, "Currency must be 10 characters or less")
		}

		settings := models.UserSettings{
			UserID:   userID,
			VatRate:  body.VatRate,
			Currency: body.Currency,
		}

		err = database.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"vat_rate", "currency", "updated_at"}),
		}).Create(&settings).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not save settings")
		}

		return c.JSON(settingsResponse{VatRate: settings.VatRate, Currency: settings.Currency})
	}
}
