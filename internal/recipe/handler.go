package recipe

import (
	"errors"
	"strings"

	"bakehouse-backend/internal/auth"
	"bakehouse-backend/internal/database"
	"bakehouse-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type recipeItemInput struct {
	InventoryID string `json:"inventory_id"`
	Quantity    string `json:"quantity"`
}

type createRecipeRequest struct {
	Name         string            `json:"name"`
	Instructions string            `json:"instructions"`
	Image        string            `json:"image"`
	Items        []recipeItemInput `json:"items"`
}

type updateRecipeRequest struct {
	Name         *string `json:"name"`
	Instructions *string `json:"instructions"`
	Image        *string `json:"image"`
	TargetMargin *string `json:"target_margin"`
	HasVat       *bool   `json:"has_vat"`
}

type updateRecipeWithItemsRequest struct {
	Name         string            `json:"name"`
	Instructions string            `json:"instructions"`
	Image        string            `json:"image"`
	Items        []recipeItemInput `json:"items"`
}

// RecipeResponse carries the recipe, its joined items and the derived pricing.
type RecipeResponse struct {
	models.Recipe
	Pricing Pricing `json:"pricing"`
}

// parseItems validates an item list and checks each referenced inventory item
// belongs to the tenant.
func parseItems(userID, recipeID string, inputs []recipeItemInput) ([]models.RecipeItem, error) {
	if len(inputs) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "At least one item is required")
	}

	items := make([]models.RecipeItem, 0, len(inputs))
	for _, in := range inputs {
		if in.InventoryID == "" {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Inventory item is required")
		}
		qty, err := decimal.NewFromString(strings.TrimSpace(in.Quantity))
		if err != nil || !qty.IsPositive() {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Item quantity must be a valid positive number")
		}

		var count int64
		database.DB.Model(&models.InventoryItem{}).
			Where("id = ? AND user_id = ?", in.InventoryID, userID).
			Count(&count)
		if count == 0 {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Inventory item not found: "+in.InventoryID)
		}

		items = append(items, models.RecipeItem{
			ID:          uuid.NewString(),
			RecipeID:    recipeID,
			InventoryID: in.InventoryID,
			Quantity:    qty,
		})
	}
	return items, nil
}

func vatRateFor(userID string) decimal.Decimal {
	var settings models.UserSettings
	if err := database.DB.First(&settings, "user_id = ?", userID).Error; err != nil {
		return decimal.Zero
	}
	return ParseVatRate(settings.VatRate)
}

func toResponse(recipe models.Recipe, vatRate decimal.Decimal) RecipeResponse {
	return RecipeResponse{
		Recipe:  recipe,
		Pricing: ComputePricing(recipe.Items, recipe.TargetMargin, recipe.HasVat, vatRate),
	}
}

// POST /api/recipes
func CreateRecipeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body createRecipeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}

		recipeID := uuid.NewString()
		items, err := parseItems(userID, recipeID, body.Items)
		if err != nil {
			return err
		}

		recipe := models.Recipe{
			ID:           recipeID,
			UserID:       userID,
			Name:         body.Name,
			Instructions: body.Instructions,
			Image:        body.Image,
			TargetMargin: decimal.Zero,
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&recipe).Error; err != nil {
				return err
			}
			return tx.Create(&items).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create recipe")
		}

		recipe.Items = items
		return c.Status(fiber.StatusCreated).JSON(recipe)
	}
}

// GET /api/recipes
func ListRecipesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var recipes []models.Recipe
		err = database.DB.
			Preload("Items").
			Preload("Items.Inventory").
			Where("user_id = ?", userID).
			Order("created_at ASC").
			Find(&recipes).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list recipes")
		}

		vatRate := vatRateFor(userID)
		resp := make([]RecipeResponse, 0, len(recipes))
		for _, r := range recipes {
			resp = append(resp, toResponse(r, vatRate))
		}
		return c.JSON(resp)
	}
}

// GET /api/recipes/:id
func GetRecipeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var recipe models.Recipe
		err = database.DB.
			Preload("Items").
			Preload("Items.Inventory").
			Where("id = ? AND user_id = ?", c.Params("id"), userID).
			First(&recipe).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Recipe not found")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load recipe")
		}

		return c.JSON(toResponse(recipe, vatRateFor(userID)))
	}
}

// PATCH /api/recipes/:id — metadata only, partial patch.
func UpdateRecipeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body updateRecipeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		fields := map[string]interface{}{}
		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name is required")
			}
			fields["name"] = name
		}
		if body.Instructions != nil {
			fields["instructions"] = *body.Instructions
		}
		if body.Image != nil {
			fields["image"] = *body.Image
		}
		if body.TargetMargin != nil {
			margin, err := ParseMargin(*body.TargetMargin)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Margin must be between 0 and 99")
			}
			fields["target_margin"] = margin
		}
		if body.HasVat != nil {
			fields["has_vat"] = *body.HasVat
		}

		if len(fields) > 0 {
			res := database.DB.Model(&models.Recipe{}).
				Where("id = ? AND user_id = ?", c.Params("id"), userID).
				Updates(fields)
			if res.Error != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not update recipe")
			}
			if res.RowsAffected == 0 {
				return fiber.NewError(fiber.StatusNotFound, "Recipe not found")
			}
		}

		var recipe models.Recipe
		if err := database.DB.Preload("Items").Preload("Items.Inventory").
			First(&recipe, "id = ? AND user_id = ?", c.Params("id"), userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Recipe not found")
		}
		return c.JSON(toResponse(recipe, vatRateFor(userID)))
	}
}

// PUT /api/recipes/:id/items — replace-all: existing items are deleted and the
// supplied list is re-inserted, not diffed.
func UpdateRecipeWithItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body updateRecipeWithItemsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}

		recipeID := c.Params("id")

		var recipe models.Recipe
		err = database.DB.
			Where("id = ? AND user_id = ?", recipeID, userID).
			First(&recipe).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Recipe not found")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load recipe")
		}

		items, err := parseItems(userID, recipeID, body.Items)
		if err != nil {
			return err
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			return replaceItems(gormItemStore{tx: tx}, recipeID, body.Name, body.Instructions, body.Image, items)
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update recipe")
		}

		return c.JSON(fiber.Map{"success": true})
	}
}

// DELETE /api/recipes/:id — cascades to recipe items.
func DeleteRecipeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		res := database.DB.
			Where("id = ? AND user_id = ?", c.Params("id"), userID).
			Delete(&models.Recipe{})
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete recipe")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Recipe not found")
		}
		return c.JSON(fiber.Map{"success": true})
	}
}
