package inventory

import (
	"errors"

	"bakehouse-backend/internal/auth"

	"github.com/gofiber/fiber/v2"
)

// mapServiceError translates service errors into fiber errors with the right
// status codes so the central error handler can render them.
func mapServiceError(err error) error {
	var vErr *ValidationError
	var dErr *DuplicateError
	switch {
	case errors.As(err, &vErr):
		return fiber.NewError(fiber.StatusBadRequest, vErr.Message)
	case errors.As(err, &dErr):
		return fiber.NewError(fiber.StatusConflict, dErr.Error())
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Item not found")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "Inventory operation failed")
	}
}

// POST /api/inventory
func CreateItemHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body CreateItemInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		item, err := svc.Create(c.Context(), userID, body)
		if err != nil {
			return mapServiceError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(item)
	}
}

// GET /api/inventory
func ListItemsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		items, err := svc.List(c.Context(), userID)
		if err != nil {
			return mapServiceError(err)
		}
		return c.JSON(items)
	}
}

// GET /api/inventory/:id
func GetItemHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		item, err := svc.Get(c.Context(), userID, c.Params("id"))
		if err != nil {
			return mapServiceError(err)
		}
		return c.JSON(item)
	}
}

// PATCH /api/inventory/:id
func UpdateItemHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body UpdateItemInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		item, err := svc.Update(c.Context(), userID, c.Params("id"), body)
		if err != nil {
			return mapServiceError(err)
		}
		return c.JSON(item)
	}
}

// DELETE /api/inventory/:id
func DeleteItemHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		if err := svc.Delete(c.Context(), userID, c.Params("id")); err != nil {
			return mapServiceError(err)
		}
		return c.JSON(fiber.Map{"success": true})
	}
}

type addStockRequest struct {
	QuantityToAdd string `json:"quantity_to_add"`
}

// POST /api/inventory/:id/stock
func AddStockHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body addStockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		item, err := svc.AddStock(c.Context(), userID, c.Params("id"), body.QuantityToAdd)
		if err != nil {
			return mapServiceError(err)
		}
		return c.JSON(item)
	}
}
