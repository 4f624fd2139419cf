package production

import (
	"context"

	"bakehouse-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// historyLimit caps the production history query (newest first).
const historyLimit = 50

// BatchItem is one requested line of a production batch.
type BatchItem struct {
	RecipeID string `json:"recipe_id"`
	Quantity int    `json:"quantity"`
}

// BatchResult reports the logs created by a committed batch.
type BatchResult struct {
	Success bool     `json:"success"`
	LogIDs  []string `json:"log_ids"`
}

// LogWithItems is one history entry with its deduction breakdown.
type LogWithItems struct {
	models.ProductionLog
	Items []models.ProductionLogItem `json:"items"`
}

// Engine executes production batches against inventory. A batch aggregates the
// deductions of every requested recipe per inventory item, validates the
// aggregate against current stock and only then writes logs and decrements
// stock. Validation and commit run inside one transaction, validation reads
// take row locks, and every decrement is conditional on sufficient stock, so
// two concurrent batches cannot both pass against the same stock value.
type Engine struct {
	repo Repository
}

func NewEngine(repo Repository) *Engine {
	return &Engine{repo: repo}
}

type plannedRecipe struct {
	recipeID string
	name     string
	quantity decimal.Decimal
	items    []models.RecipeItem
}

// ExecuteBatch runs one all-or-nothing production batch for the tenant.
//
// Two recipes sharing an ingredient have their deductions summed before the
// stock check: checking each recipe against the pre-batch stock independently
// would falsely pass when the combined request overdraws the item.
func (e *Engine) ExecuteBatch(ctx context.Context, userID string, batch []BatchItem) (*BatchResult, error) {
	if len(batch) == 0 {
		return nil, ErrEmptyBatch
	}
	for _, item := range batch {
		if item.RecipeID == "" || item.Quantity <= 0 {
			return nil, &InvalidQuantityError{RecipeID: item.RecipeID, Quantity: item.Quantity}
		}
	}

	var logIDs []string

	err := e.repo.Transaction(ctx, func(r Repository) error {
		// Plan: load every recipe and accumulate per-inventory deductions
		// across the whole batch.
		planned := make([]plannedRecipe, 0, len(batch))
		deductions := make(map[string]decimal.Decimal)
		var checkOrder []string

		for _, item := range batch {
			recipe, err := r.RecipeWithItems(ctx, userID, item.RecipeID)
			if err != nil {
				return err
			}

			qty := decimal.NewFromInt(int64(item.Quantity))
			planned = append(planned, plannedRecipe{
				recipeID: recipe.ID,
				name:     recipe.Name,
				quantity: qty,
				items:    recipe.Items,
			})

			for _, ri := range recipe.Items {
				if _, seen := deductions[ri.InventoryID]; !seen {
					checkOrder = append(checkOrder, ri.InventoryID)
				}
				deductions[ri.InventoryID] = deductions[ri.InventoryID].Add(ri.Quantity.Mul(qty))
			}
		}

		// Validate the aggregate plan against current stock.
		for _, invID := range checkOrder {
			inv, err := r.InventoryByID(ctx, invID)
			if err != nil {
				return err
			}
			required := deductions[invID]
			if inv.Stock.LessThan(required) {
				return &InsufficientStockError{
					Name:      inv.Name,
					Unit:      inv.Unit,
					Required:  required,
					Available: inv.Stock,
				}
			}
		}

		// Commit: one log per recipe, one snapshot line per recipe item, each
		// decrementing the item's own contribution (the validation above
		// already covered the aggregate).
		for _, p := range planned {
			recipeID := p.recipeID
			log := &models.ProductionLog{
				ID:         uuid.NewString(),
				UserID:     userID,
				RecipeID:   &recipeID,
				RecipeName: p.name,
				Quantity:   p.quantity,
			}
			if err := r.CreateLog(ctx, log); err != nil {
				return err
			}

			for _, ri := range p.items {
				deduct := ri.Quantity.Mul(p.quantity)

				inv, err := r.InventoryByID(ctx, ri.InventoryID)
				if err != nil {
					// An item vanished between validation and commit: abort
					// the whole batch rather than silently dropping the line.
					return err
				}

				invID := ri.InventoryID
				logItem := &models.ProductionLogItem{
					ID:               uuid.NewString(),
					ProductionLogID:  log.ID,
					InventoryID:      &invID,
					InventoryName:    inv.Name,
					Unit:             inv.Unit,
					QuantityDeducted: deduct,
				}
				if err := r.CreateLogItem(ctx, logItem); err != nil {
					return err
				}
				if err := r.DeductStock(ctx, ri.InventoryID, deduct); err != nil {
					return err
				}
			}

			logIDs = append(logIDs, log.ID)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &BatchResult{Success: true, LogIDs: logIDs}, nil
}

// Undo reverses one historical log: every recorded deduction is added back to
// its inventory item using the snapshotted amount, then the log is deleted.
// Using the recorded amounts keeps undo exact even after the recipe was
// edited. Items whose inventory row was deleted since production are skipped.
func (e *Engine) Undo(ctx context.Context, userID, logID string) error {
	return e.repo.Transaction(ctx, func(r Repository) error {
		log, err := r.LogByID(ctx, userID, logID)
		if err != nil {
			return err
		}

		items, err := r.LogItems(ctx, log.ID)
		if err != nil {
			return err
		}

		for _, item := range items {
			if item.InventoryID == nil {
				continue
			}
			if _, err := r.InventoryByID(ctx, *item.InventoryID); err != nil {
				continue // inventory row deleted after production
			}
			if err := r.AdjustStock(ctx, *item.InventoryID, item.QuantityDeducted); err != nil {
				return err
			}
		}

		return r.DeleteLog(ctx, log.ID)
	})
}

// History lists the tenant's most recent logs, newest first, with their item
// breakdowns.
func (e *Engine) History(ctx context.Context, userID string) ([]LogWithItems, error) {
	logs, err := e.repo.RecentLogs(ctx, userID, historyLimit)
	if err != nil {
		return nil, err
	}

	result := make([]LogWithItems, 0, len(logs))
	for _, log := range logs {
		items, err := e.repo.LogItems(ctx, log.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, LogWithItems{ProductionLog: log, Items: items})
	}
	return result, nil
}

// RecipesForProduction returns the tenant's recipes with items and joined
// inventory rows for the production screen.
func (e *Engine) RecipesForProduction(ctx context.Context, userID string) ([]models.Recipe, error) {
	return e.repo.RecipesWithItems(ctx, userID)
}
