package production

import (
	"context"
	"sort"
	"testing"
	"time"

	"bakehouse-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── In-memory Repository stub ────────────────────────────────────────────────

type stubRepo struct {
	recipes   map[string]*models.Recipe
	inventory map[string]*models.InventoryItem
	logs      map[string]*models.ProductionLog
	logItems  map[string][]models.ProductionLogItem
	clock     time.Time
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		recipes:   make(map[string]*models.Recipe),
		inventory: make(map[string]*models.InventoryItem),
		logs:      make(map[string]*models.ProductionLog),
		logItems:  make(map[string][]models.ProductionLogItem),
		clock:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *stubRepo) Transaction(_ context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *stubRepo) RecipeWithItems(_ context.Context, userID, recipeID string) (*models.Recipe, error) {
	rec, ok := r.recipes[recipeID]
	if !ok || rec.UserID != userID {
		return nil, &RecipeNotFoundError{RecipeID: recipeID}
	}
	copied := *rec
	return &copied, nil
}

func (r *stubRepo) RecipesWithItems(_ context.Context, userID string) ([]models.Recipe, error) {
	var result []models.Recipe
	for _, rec := range r.recipes {
		if rec.UserID == userID {
			result = append(result, *rec)
		}
	}
	return result, nil
}

func (r *stubRepo) InventoryByID(_ context.Context, id string) (*models.InventoryItem, error) {
	item, ok := r.inventory[id]
	if !ok {
		return nil, &InventoryNotFoundError{InventoryID: id}
	}
	copied := *item
	return &copied, nil
}

func (r *stubRepo) AdjustStock(_ context.Context, inventoryID string, delta decimal.Decimal) error {
	item, ok := r.inventory[inventoryID]
	if !ok {
		return &InventoryNotFoundError{InventoryID: inventoryID}
	}
	item.Stock = item.Stock.Add(delta)
	return nil
}

func (r *stubRepo) DeductStock(_ context.Context, inventoryID string, amount decimal.Decimal) error {
	item, ok := r.inventory[inventoryID]
	if !ok {
		return &InventoryNotFoundError{InventoryID: inventoryID}
	}
	if item.Stock.LessThan(amount) {
		return &InsufficientStockError{
			Name:      item.Name,
			Unit:      item.Unit,
			Required:  amount,
			Available: item.Stock,
		}
	}
	item.Stock = item.Stock.Sub(amount)
	return nil
}

func (r *stubRepo) CreateLog(_ context.Context, log *models.ProductionLog) error {
	r.clock = r.clock.Add(time.Second)
	log.CreatedAt = r.clock
	copied := *log
	r.logs[log.ID] = &copied
	return nil
}

func (r *stubRepo) CreateLogItem(_ context.Context, item *models.ProductionLogItem) error {
	r.logItems[item.ProductionLogID] = append(r.logItems[item.ProductionLogID], *item)
	return nil
}

func (r *stubRepo) LogByID(_ context.Context, userID, logID string) (*models.ProductionLog, error) {
	log, ok := r.logs[logID]
	if !ok || log.UserID != userID {
		return nil, ErrLogNotFound
	}
	copied := *log
	return &copied, nil
}

func (r *stubRepo) LogItems(_ context.Context, logID string) ([]models.ProductionLogItem, error) {
	return r.logItems[logID], nil
}

func (r *stubRepo) RecentLogs(_ context.Context, userID string, limit int) ([]models.ProductionLog, error) {
	var logs []models.ProductionLog
	for _, log := range r.logs {
		if log.UserID == userID {
			logs = append(logs, *log)
		}
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].CreatedAt.After(logs[j].CreatedAt) })
	if len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

func (r *stubRepo) DeleteLog(_ context.Context, logID string) error {
	delete(r.logs, logID)
	delete(r.logItems, logID) // cascade
	return nil
}

// ── Fixtures ─────────────────────────────────────────────────────────────────

const tenant = "tenant-1"

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (r *stubRepo) addInventory(name, unit, stock string) string {
	id := uuid.NewString()
	r.inventory[id] = &models.InventoryItem{
		ID:     id,
		UserID: tenant,
		Name:   name,
		Unit:   unit,
		Stock:  dec(stock),
	}
	return id
}

func (r *stubRepo) addRecipe(userID, name string, items map[string]string) string {
	id := uuid.NewString()
	recipe := &models.Recipe{ID: id, UserID: userID, Name: name}
	for invID, qty := range items {
		recipe.Items = append(recipe.Items, models.RecipeItem{
			ID:          uuid.NewString(),
			RecipeID:    id,
			InventoryID: invID,
			Quantity:    dec(qty),
		})
	}
	r.recipes[id] = recipe
	return id
}

// ── ExecuteBatch ─────────────────────────────────────────────────────────────

func TestExecuteBatchExactStock(t *testing.T) {
	repo := newStubRepo()
	engine := NewEngine(repo)

	flour := repo.addInventory("Flour", "g", "1000")
	recipeA := repo.addRecipe(tenant, "Recipe A", map[string]string{flour: "200"})
	recipeB := repo.addRecipe(tenant, "Recipe B", map[string]string{flour: "300"})

	// 200*2 + 300*2 = 1000, exactly the available stock
	result, err := engine.ExecuteBatch(context.Background(), tenant, []BatchItem{
		{RecipeID: recipeA, Quantity: 2},
		{RecipeID: recipeB, Quantity: 2},
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Len(t, result.LogIDs, 2)

	assert.True(t, repo.inventory[flour].Stock.IsZero(), "stock should be exactly zero, got %s", repo.inventory[flour].Stock)

	// Each log records its own recipe's contribution, not the aggregate.
	itemsA := repo.logItems[result.LogIDs[0]]
	require.Len(t, itemsA, 1)
	assert.True(t, itemsA[0].QuantityDeducted.Equal(dec("400")))
	assert.Equal(t, "Flour", itemsA[0].InventoryName)
	assert.Equal(t, "g", itemsA[0].Unit)

	itemsB := repo.logItems[result.LogIDs[1]]
	require.Len(t, itemsB, 1)
	assert.True(t, itemsB[0].QuantityDeducted.Equal(dec("600")))
}

func TestExecuteBatchAggregateOverdraw(t *testing.T) {
	repo := newStubRepo()
	engine := NewEngine(repo)

	flour := repo.addInventory("Flour", "g", "1000")
	recipeA := repo.addRecipe(tenant, "Recipe A", map[string]string{flour: "200"})
	recipeB := repo.addRecipe(tenant, "Recipe B", map[string]string{flour: "300"})

	// Each recipe alone fits (600 ≤ 1000), but the aggregate 600+600 = 1200
	// overdraws. The check must use the summed deduction.
	_, err := engine.ExecuteBatch(context.Background(), tenant, []BatchItem{
		{RecipeID: recipeA, Quantity: 3},
		{RecipeID: recipeB, Quantity: 2},
	})

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Flour", stockErr.Name)
	assert.True(t, stockErr.Required.Equal(dec("1200")))
	assert.True(t, stockErr.Available.Equal(dec("1000")))

	// All-or-nothing: no stock change, no logs.
	assert.True(t, repo.inventory[flour].Stock.Equal(dec("1000")))
	assert.Empty(t, repo.logs)
}

// drainingRepo simulates another batch committing between this batch's stock
// check and its first write: the drain runs once, right before the first log
// is created.
type drainingRepo struct {
	*stubRepo
	drain   func()
	drained bool
}

func (r *drainingRepo) Transaction(_ context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *drainingRepo) CreateLog(ctx context.Context, log *models.ProductionLog) error {
	if !r.drained {
		r.drained = true
		r.drain()
	}
	return r.stubRepo.CreateLog(ctx, log)
}

func TestExecuteBatchConcurrentDepletionAborts(t *testing.T) {
	stub := newStubRepo()

	flour := stub.addInventory("Flour", "g", "1000")
	recipe := stub.addRecipe(tenant, "Bread", map[string]string{flour: "600"})

	repo := &drainingRepo{
		stubRepo: stub,
		drain: func() {
			stub.inventory[flour].Stock = dec("500")
		},
	}
	engine := NewEngine(repo)

	// Validation sees 1000 and passes, but by commit time only 500 remain.
	// The conditional decrement must refuse rather than drive stock to -100.
	_, err := engine.ExecuteBatch(context.Background(), tenant, []BatchItem{
		{RecipeID: recipe, Quantity: 1},
	})

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.True(t, stockErr.Required.Equal(dec("600")))
	assert.True(t, stockErr.Available.Equal(dec("500")))
	assert.True(t, stub.inventory[flour].Stock.Equal(dec("500")), "stock must never go negative")
}

func TestExecuteBatchSharedAndSeparateIngredients(t *testing.T) {
	repo := newStubRepo()
	engine := NewEngine(repo)

	flour := repo.addInventory("Flour", "g", "500")
	sugar := repo.addInventory("Sugar", "g", "100")
	recipeA := repo.addRecipe(tenant, "Cake", map[string]string{flour: "100", sugar: "50"})
	recipeB := repo.addRecipe(tenant, "Bread", map[string]string{flour: "150"})

	result, err := engine.ExecuteBatch(context.Background(), tenant, []BatchItem{
		{RecipeID: recipeA, Quantity: 2},
		{RecipeID: recipeB, Quantity: 2},
	})
	require.NoError(t, err)
	require.Len(t, result.LogIDs, 2)

	assert.True(t, repo.inventory[flour].Stock.Equal(dec("0")))  // 500 - (200+300)
	assert.True(t, repo.inventory[sugar].Stock.Equal(dec("0")))  // 100 - 100
}

func TestExecuteBatchEmpty(t *testing.T) {
	engine := NewEngine(newStubRepo())

	_, err := engine.ExecuteBatch(context.Background(), tenant, nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

func TestExecuteBatchInvalidQuantity(t *testing.T) {
	repo := newStubRepo()
	engine := NewEngine(repo)

	flour := repo.addInventory("Flour", "g", "1000")
	recipeA := repo.addRecipe(tenant, "Recipe A", map[string]string{flour: "200"})

	for _, qty := range []int{0, -1} {
		_, err := engine.ExecuteBatch(context.Background(), tenant, []BatchItem{
			{RecipeID: recipeA, Quantity: qty},
		})
		var qtyErr *InvalidQuantityError
		assert.ErrorAs(t, err, &qtyErr)
	}
	assert.Empty(t, repo.logs)
}

func TestExecuteBatchRecipeNotFound(t *testing.T) {
	repo := newStubRepo()
	engine := NewEngine(repo)

	flour := repo.addInventory("Flour", "g", "1000")
	otherTenantRecipe := repo.addRecipe("tenant-2", "Theirs", map[string]string{flour: "1"})

	// Unknown id
	_, err := engine.ExecuteBatch(context.Background(), tenant, []BatchItem{
		{RecipeID: "missing", Quantity: 1},
	})
	var notFound *RecipeNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.RecipeID)

	// Another tenant's recipe must look missing too.
	_, err = engine.ExecuteBatch(context.Background(), tenant, []BatchItem{
		{RecipeID: otherTenantRecipe, Quantity: 1},
	})
	assert.ErrorAs(t, err, &notFound)
	assert.Empty(t, repo.logs)
}

// ── Undo ─────────────────────────────────────────────────────────────────────

func TestUndoRestoresExactAmount(t *testing.T) {
	repo := newStubRepo()
	engine := NewEngine(repo)

	flour := repo.addInventory("Flour", "g", "1000")
	recipeA := repo.addRecipe(tenant, "Recipe A", map[string]string{flour: "200"})

	result, err := engine.ExecuteBatch(context.Background(), tenant, []BatchItem{
		{RecipeID: recipeA, Quantity: 2},
	})
	require.NoError(t, err)
	require.True(t, repo.inventory[flour].Stock.Equal(dec("600")))

	// Unrelated stock movement between produce and undo.
	repo.inventory[flour].Stock = repo.inventory[flour].Stock.Add(dec("123.45"))

	require.NoError(t, engine.Undo(context.Background(), tenant, result.LogIDs[0]))

	// Undo restores exactly the recorded 400, regardless of the movement.
	assert.True(t, repo.inventory[flour].Stock.Equal(dec("1123.45")))
	assert.Empty(t, repo.logs)
	assert.Empty(t, repo.logItems)
}

func TestUndoUsesRecordedAmountsAfterRecipeEdit(t *testing.T) {
	repo := newStubRepo()
	engine := NewEngine(repo)

	flour := repo.addInventory("Flour", "g", "1000")
	recipeA := repo.addRecipe(tenant, "Recipe A", map[string]string{flour: "200"})

	result, err := engine.ExecuteBatch(context.Background(), tenant, []BatchItem{
		{RecipeID: recipeA, Quantity: 1},
	})
	require.NoError(t, err)

	// Recipe now needs 10x more flour; undo must still restore the snapshot.
	repo.recipes[recipeA].Items[0].Quantity = dec("2000")

	require.NoError(t, engine.Undo(context.Background(), tenant, result.LogIDs[0]))
	assert.True(t, repo.inventory[flour].Stock.Equal(dec("1000")))
}

func TestUndoSkipsDeletedInventory(t *testing.T) {
	repo := newStubRepo()
	engine := NewEngine(repo)

	flour := repo.addInventory("Flour", "g", "1000")
	sugar := repo.addInventory("Sugar", "g", "500")
	recipeA := repo.addRecipe(tenant, "Cake", map[string]string{flour: "100", sugar: "50"})

	result, err := engine.ExecuteBatch(context.Background(), tenant, []BatchItem{
		{RecipeID: recipeA, Quantity: 2},
	})
	require.NoError(t, err)

	delete(repo.inventory, sugar)

	require.NoError(t, engine.Undo(context.Background(), tenant, result.LogIDs[0]))
	assert.True(t, repo.inventory[flour].Stock.Equal(dec("1000")))
	assert.Empty(t, repo.logs)
}

func TestUndoNotFound(t *testing.T) {
	repo := newStubRepo()
	engine := NewEngine(repo)

	flour := repo.addInventory("Flour", "g", "1000")
	recipeA := repo.addRecipe(tenant, "Recipe A", map[string]string{flour: "200"})
	result, err := engine.ExecuteBatch(context.Background(), tenant, []BatchItem{
		{RecipeID: recipeA, Quantity: 1},
	})
	require.NoError(t, err)

	assert.ErrorIs(t, engine.Undo(context.Background(), tenant, "missing"), ErrLogNotFound)
	// Another tenant cannot undo this tenant's log.
	assert.ErrorIs(t, engine.Undo(context.Background(), "tenant-2", result.LogIDs[0]), ErrLogNotFound)
}

// ── History ──────────────────────────────────────────────────────────────────

func TestHistoryNewestFirstWithItems(t *testing.T) {
	repo := newStubRepo()
	engine := NewEngine(repo)

	flour := repo.addInventory("Flour", "g", "10000")
	recipeA := repo.addRecipe(tenant, "Recipe A", map[string]string{flour: "100"})

	for i := 0; i < 3; i++ {
		_, err := engine.ExecuteBatch(context.Background(), tenant, []BatchItem{
			{RecipeID: recipeA, Quantity: 1},
		})
		require.NoError(t, err)
	}

	logs, err := engine.History(context.Background(), tenant)
	require.NoError(t, err)
	require.Len(t, logs, 3)

	for i := 1; i < len(logs); i++ {
		assert.True(t, logs[i-1].CreatedAt.After(logs[i].CreatedAt), "logs must be newest first")
	}
	for _, log := range logs {
		require.Len(t, log.Items, 1)
		assert.Equal(t, "Flour", log.Items[0].InventoryName)
	}
}
