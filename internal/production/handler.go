package production

import (
	"errors"

	"bakehouse-backend/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func mapEngineError(err error) error {
	var recipeErr *RecipeNotFoundError
	var invErr *InventoryNotFoundError
	var stockErr *InsufficientStockError
	var qtyErr *InvalidQuantityError
	switch {
	case errors.Is(err, ErrEmptyBatch):
		return fiber.NewError(fiber.StatusBadRequest, "No items to produce")
	case errors.As(err, &qtyErr):
		return fiber.NewError(fiber.StatusBadRequest, qtyErr.Error())
	case errors.As(err, &recipeErr):
		return fiber.NewError(fiber.StatusNotFound, recipeErr.Error())
	case errors.As(err, &invErr):
		return fiber.NewError(fiber.StatusNotFound, invErr.Error())
	case errors.As(err, &stockErr):
		return fiber.NewError(fiber.StatusUnprocessableEntity, stockErr.Error())
	case errors.Is(err, ErrLogNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Production log not found")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "Production operation failed")
	}
}

// POST /api/production/batch
func ExecuteBatchHandler(engine *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var batch []BatchItem
		if err := c.BodyParser(&batch); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		result, err := engine.ExecuteBatch(c.Context(), userID, batch)
		if err != nil {
			return mapEngineError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(result)
	}
}

// GET /api/production/logs
func ListLogsHandler(engine *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		logs, err := engine.History(c.Context(), userID)
		if err != nil {
			return mapEngineError(err)
		}
		return c.JSON(logs)
	}
}

// POST /api/production/logs/:id/undo
func UndoHandler(engine *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		if err := engine.Undo(c.Context(), userID, c.Params("id")); err != nil {
			return mapEngineError(err)
		}
		return c.JSON(fiber.Map{"success": true})
	}
}

// GET /api/production/recipes — recipes with items for the production screen.
func RecipesHandler(engine *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		recipes, err := engine.RecipesForProduction(c.Context(), userID)
		if err != nil {
			return mapEngineError(err)
		}
		return c.JSON(recipes)
	}
}
