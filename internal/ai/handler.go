package ai

import (
	"bakehouse-backend/internal/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// POST /api/ai/generate-recipe
func GenerateRecipeHandler(suggester *Suggester) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		suggestion, err := suggester.GenerateRecipe(c.Context(), userID)
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("recipe generation failed")
			return fiber.NewError(fiber.StatusBadGateway, "Could not generate a recipe suggestion")
		}
		return c.JSON(suggestion)
	}
}

type suggestMarginRequest struct {
	RecipeName string `json:"recipe_name"`
	TotalCost  string `json:"total_cost"`
	Currency   string `json:"currency"`
}

// POST /api/ai/suggest-margin
func SuggestMarginHandler(suggester *Suggester) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := auth.UserID(c); err != nil {
			return err
		}

		var body suggestMarginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.RecipeName == "" || body.TotalCost == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Recipe name and total cost are required")
		}

		suggestion, err := suggester.SuggestMargin(c.Context(), body.RecipeName, body.TotalCost, body.Currency)
		if err != nil {
			log.Warn().Err(err).Msg("margin suggestion failed")
			return fiber.NewError(fiber.StatusBadGateway, "Could not generate a margin suggestion")
		}
		return c.JSON(suggestion)
	}
}
