package inventory

import (
	"context"
	"strings"
	"testing"

	"bakehouse-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── In-memory Repository stub ────────────────────────────────────────────────

type stubRepo struct {
	items map[string]*models.InventoryItem
}

func newStubRepo() *stubRepo {
	return &stubRepo{items: make(map[string]*models.InventoryItem)}
}

func (r *stubRepo) Create(_ context.Context, item *models.InventoryItem) error {
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *stubRepo) ListByUser(_ context.Context, userID string) ([]models.InventoryItem, error) {
	var result []models.InventoryItem
	for _, item := range r.items {
		if item.UserID == userID {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *stubRepo) FindByID(_ context.Context, userID, id string) (*models.InventoryItem, error) {
	item, ok := r.items[id]
	if !ok || item.UserID != userID {
		return nil, ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *stubRepo) FindByNameUnit(_ context.Context, userID, name, unit string) (*models.InventoryItem, error) {
	for _, item := range r.items {
		if item.UserID == userID && item.Unit == unit && strings.EqualFold(item.Name, name) {
			copied := *item
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *stubRepo) Updates(_ context.Context, userID, id string, fields map[string]interface{}) error {
	item, ok := r.items[id]
	if !ok || item.UserID != userID {
		return ErrNotFound
	}
	for key, value := range fields {
		switch key {
		case "name":
			item.Name = value.(string)
		case "category":
			item.Category = value.(string)
		case "supplier":
			item.Supplier = value.(string)
		case "unit":
			item.Unit = value.(string)
		case "purchase_cost":
			item.PurchaseCost = value.(decimal.Decimal)
		case "purchase_quantity":
			item.PurchaseQuantity = value.(decimal.Decimal)
		case "stock":
			item.Stock = value.(decimal.Decimal)
		}
	}
	return nil
}

func (r *stubRepo) AddStock(_ context.Context, userID, id string, delta decimal.Decimal) error {
	item, ok := r.items[id]
	if !ok || item.UserID != userID {
		return ErrNotFound
	}
	item.Stock = item.Stock.Add(delta)
	return nil
}

func (r *stubRepo) Delete(_ context.Context, userID, id string) error {
	item, ok := r.items[id]
	if !ok || item.UserID != userID {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// ── Tests ────────────────────────────────────────────────────────────────────

func validInput() CreateItemInput {
	return CreateItemInput{
		Name:             "Flour",
		Category:         models.CategoryIngredient,
		Supplier:         "Mill & Co",
		PurchaseCost:     "12.50",
		PurchaseQuantity: "1000",
		Unit:             "g",
	}
}

func TestCreateInitialStockEqualsPurchaseQuantity(t *testing.T) {
	svc := NewService(newStubRepo())

	item, err := svc.Create(context.Background(), "tenant-1", validInput())
	require.NoError(t, err)

	assert.True(t, item.Stock.Equal(item.PurchaseQuantity))
	assert.True(t, item.Stock.Equal(decimal.NewFromInt(1000)))
	assert.NotEmpty(t, item.ID)
}

func TestCreateRejectsDuplicateNameUnit(t *testing.T) {
	svc := NewService(newStubRepo())

	_, err := svc.Create(context.Background(), "tenant-1", validInput())
	require.NoError(t, err)

	// Same name+unit, different case: rejected within the tenant.
	dup := validInput()
	dup.Name = "FLOUR"
	_, err = svc.Create(context.Background(), "tenant-1", dup)
	var dupErr *DuplicateError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "FLOUR", dupErr.Name)

	// Same name, different unit: allowed.
	otherUnit := validInput()
	otherUnit.Unit = "kg"
	_, err = svc.Create(context.Background(), "tenant-1", otherUnit)
	assert.NoError(t, err)

	// Same name+unit for a different tenant: allowed.
	_, err = svc.Create(context.Background(), "tenant-2", validInput())
	assert.NoError(t, err)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newStubRepo())
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CreateItemInput)
	}{
		{"empty name", func(in *CreateItemInput) { in.Name = "  " }},
		{"bad category", func(in *CreateItemInput) { in.Category = "spice" }},
		{"empty unit", func(in *CreateItemInput) { in.Unit = "" }},
		{"negative cost", func(in *CreateItemInput) { in.PurchaseCost = "-1" }},
		{"garbage cost", func(in *CreateItemInput) { in.PurchaseCost = "abc" }},
		{"zero purchase quantity", func(in *CreateItemInput) { in.PurchaseQuantity = "0" }},
		{"negative purchase quantity", func(in *CreateItemInput) { in.PurchaseQuantity = "-5" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := svc.Create(ctx, "tenant-1", in)
			var vErr *ValidationError
			assert.ErrorAs(t, err, &vErr)
		})
	}
}

func TestAddStock(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	ctx := context.Background()

	item, err := svc.Create(ctx, "tenant-1", validInput())
	require.NoError(t, err)

	updated, err := svc.AddStock(ctx, "tenant-1", item.ID, "250.5")
	require.NoError(t, err)
	assert.True(t, updated.Stock.Equal(decimal.RequireFromString("1250.5")))

	// A deduction landing between the caller's last read and the stock-add
	// must survive: the delta applies on top of the current value.
	repo.items[item.ID].Stock = decimal.RequireFromString("400")
	updated, err = svc.AddStock(ctx, "tenant-1", item.ID, "100")
	require.NoError(t, err)
	assert.True(t, updated.Stock.Equal(decimal.RequireFromString("500")))

	// Delta must be strictly positive.
	for _, bad := range []string{"0", "-10", "abc"} {
		_, err := svc.AddStock(ctx, "tenant-1", item.ID, bad)
		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr, bad)
	}

	// Unknown item.
	_, err = svc.AddStock(ctx, "tenant-1", "missing", "10")
	assert.ErrorIs(t, err, ErrNotFound)

	// Another tenant cannot touch the item.
	_, err = svc.AddStock(ctx, "tenant-2", item.ID, "10")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePartialPatch(t *testing.T) {
	svc := NewService(newStubRepo())
	ctx := context.Background()

	item, err := svc.Create(ctx, "tenant-1", validInput())
	require.NoError(t, err)

	newName := "Bread Flour"
	newStock := "42"
	updated, err := svc.Update(ctx, "tenant-1", item.ID, UpdateItemInput{
		Name:  &newName,
		Stock: &newStock,
	})
	require.NoError(t, err)

	assert.Equal(t, "Bread Flour", updated.Name)
	assert.True(t, updated.Stock.Equal(decimal.NewFromInt(42)))
	// Untouched fields keep their values.
	assert.Equal(t, "g", updated.Unit)
	assert.True(t, updated.PurchaseCost.Equal(decimal.RequireFromString("12.50")))

	// Negative stock patch is rejected.
	badStock := "-1"
	_, err = svc.Update(ctx, "tenant-1", item.ID, UpdateItemInput{Stock: &badStock})
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestDelete(t *testing.T) {
	svc := NewService(newStubRepo())
	ctx := context.Background()

	item, err := svc.Create(ctx, "tenant-1", validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "tenant-1", item.ID))
	_, err = svc.Get(ctx, "tenant-1", item.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, "tenant-1", "missing"), ErrNotFound)
}
