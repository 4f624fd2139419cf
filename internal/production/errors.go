package production

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyBatch  = errors.New("production batch is empty")
	ErrLogNotFound = errors.New("production log not found")
)

// RecipeNotFoundError: a batch referenced a recipe that does not exist or is
// not owned by the requesting tenant.
type RecipeNotFoundError struct {
	RecipeID string
}

func (e *RecipeNotFoundError) Error() string {
	return fmt.Sprintf("Recipe not found: %s", e.RecipeID)
}

// InventoryNotFoundError: an inventory item referenced by a recipe vanished.
// The whole batch rolls back when this happens.
type InventoryNotFoundError struct {
	InventoryID string
	Name        string
}

func (e *InventoryNotFoundError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("Inventory item not found: %s", e.Name)
	}
	return fmt.Sprintf("Inventory item not found: %s", e.InventoryID)
}

// InsufficientStockError: the batch-wide aggregate deduction for one item
// exceeds its available stock.
type InsufficientStockError struct {
	Name      string
	Unit      string
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %q: need %s %s, have %s %s",
		e.Name, e.Required.String(), e.Unit, e.Available.String(), e.Unit)
}

// InvalidQuantityError: batch quantities must be positive integers.
type InvalidQuantityError struct {
	RecipeID string
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("Invalid quantity %d for recipe %s", e.Quantity, e.RecipeID)
}
