package recipe

import (
	"bakehouse-backend/internal/models"

	"gorm.io/gorm"
)

// itemStore is the narrow persistence surface replaceItems needs. The handler
// passes a transaction-bound gorm store; tests substitute an in-memory one.
type itemStore interface {
	UpdateRecipe(recipeID string, fields map[string]interface{}) error
	DeleteItems(recipeID string) error
	InsertItems(items []models.RecipeItem) error
}

// replaceItems swaps a recipe's item list wholesale: update metadata, delete
// every existing row, insert the supplied list. Rows are not diffed, so
// applying the same list again yields the same net set of bindings.
func replaceItems(store itemStore, recipeID, name, instructions, image string, items []models.RecipeItem) error {
	err := store.UpdateRecipe(recipeID, map[string]interface{}{
		"name":         name,
		"instructions": instructions,
		"image":        image,
	})
	if err != nil {
		return err
	}
	if err := store.DeleteItems(recipeID); err != nil {
		return err
	}
	return store.InsertItems(items)
}

type gormItemStore struct {
	tx *gorm.DB
}

func (s gormItemStore) UpdateRecipe(recipeID string, fields map[string]interface{}) error {
	return s.tx.Model(&models.Recipe{}).Where("id = ?", recipeID).Updates(fields).Error
}

func (s gormItemStore) DeleteItems(recipeID string) error {
	return s.tx.Delete(&models.RecipeItem{}, "recipe_id = ?", recipeID).Error
}

func (s gormItemStore) InsertItems(items []models.RecipeItem) error {
	return s.tx.Create(&items).Error
}
