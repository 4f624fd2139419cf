package recipe

import (
	"testing"

	"bakehouse-backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubItemStore struct {
	fields map[string]interface{}
	items  map[string][]models.RecipeItem
}

func newStubItemStore() *stubItemStore {
	return &stubItemStore{items: make(map[string][]models.RecipeItem)}
}

func (s *stubItemStore) UpdateRecipe(_ string, fields map[string]interface{}) error {
	s.fields = fields
	return nil
}

func (s *stubItemStore) DeleteItems(recipeID string) error {
	delete(s.items, recipeID)
	return nil
}

func (s *stubItemStore) InsertItems(items []models.RecipeItem) error {
	for _, item := range items {
		s.items[item.RecipeID] = append(s.items[item.RecipeID], item)
	}
	return nil
}

// binding mimics what the handler builds from a request: fresh row ids on
// every submission, same inventory references.
func binding(recipeID, inventoryID, quantity string) models.RecipeItem {
	return models.RecipeItem{
		ID:          uuid.NewString(),
		RecipeID:    recipeID,
		InventoryID: inventoryID,
		Quantity:    dec(quantity),
	}
}

func bindingSet(items []models.RecipeItem) map[string]string {
	set := make(map[string]string, len(items))
	for _, item := range items {
		set[item.InventoryID] = item.Quantity.String()
	}
	return set
}

func TestReplaceItemsIdempotent(t *testing.T) {
	store := newStubItemStore()
	recipeID := uuid.NewString()
	flour := uuid.NewString()
	sugar := uuid.NewString()

	first := []models.RecipeItem{
		binding(recipeID, flour, "200"),
		binding(recipeID, sugar, "50"),
	}
	require.NoError(t, replaceItems(store, recipeID, "Cake", "Mix.", "", first))

	// Re-submitting the identical list must leave the net set unchanged, not
	// accumulate rows.
	second := []models.RecipeItem{
		binding(recipeID, flour, "200"),
		binding(recipeID, sugar, "50"),
	}
	require.NoError(t, replaceItems(store, recipeID, "Cake", "Mix.", "", second))

	require.Len(t, store.items[recipeID], 2)
	assert.Equal(t, bindingSet(first), bindingSet(store.items[recipeID]))
	assert.Equal(t, "Cake", store.fields["name"])
}

func TestReplaceItemsSwapsList(t *testing.T) {
	store := newStubItemStore()
	recipeID := uuid.NewString()
	flour := uuid.NewString()
	butter := uuid.NewString()

	require.NoError(t, replaceItems(store, recipeID, "Cake", "", "", []models.RecipeItem{
		binding(recipeID, flour, "200"),
	}))
	require.NoError(t, replaceItems(store, recipeID, "Butter Cake", "", "", []models.RecipeItem{
		binding(recipeID, butter, "80"),
	}))

	// Old bindings are gone, only the new list remains.
	require.Len(t, store.items[recipeID], 1)
	assert.Equal(t, butter, store.items[recipeID][0].InventoryID)
	assert.Equal(t, "Butter Cake", store.fields["name"])
}
