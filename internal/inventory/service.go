package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bakehouse-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("inventory item not found")

// ValidationError carries a field-level message suitable for the UI.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// DuplicateError: tenant already has an item with this name+unit pair.
type DuplicateError struct {
	Name string
	Unit string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("Item %q with unit %q already exists.", e.Name, e.Unit)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateItemInput struct {
	Name             string `json:"name"`
	Category         string `json:"category"`
	Supplier         string `json:"supplier"`
	PurchaseCost     string `json:"purchase_cost"`
	PurchaseQuantity string `json:"purchase_quantity"`
	Unit             string `json:"unit"`
}

type UpdateItemInput struct {
	Name             *string `json:"name"`
	Category         *string `json:"category"`
	Supplier         *string `json:"supplier"`
	PurchaseCost     *string `json:"purchase_cost"`
	PurchaseQuantity *string `json:"purchase_quantity"`
	Unit             *string `json:"unit"`
	Stock            *string `json:"stock"`
}

// Create rejects a duplicate name+unit pair (case-insensitive on name) within
// the tenant and initializes stock to the purchase quantity.
func (s *Service) Create(ctx context.Context, userID string, in CreateItemInput) (*models.InventoryItem, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Unit = strings.TrimSpace(in.Unit)

	if in.Name == "" {
		return nil, &ValidationError{Message: "Name is required"}
	}
	if in.Category != models.CategoryIngredient && in.Category != models.CategoryOther {
		return nil, &ValidationError{Message: "Category must be 'ingredient' or 'other'"}
	}
	if in.Unit == "" {
		return nil, &ValidationError{Message: "Unit is required"}
	}

	cost, err := parseNonNegative(in.PurchaseCost)
	if err != nil {
		return nil, &ValidationError{Message: "Purchase cost must be a valid non-negative number"}
	}
	qty, err := parsePositive(in.PurchaseQuantity)
	if err != nil {
		return nil, &ValidationError{Message: "Purchase quantity must be a valid positive number"}
	}

	if _, err := s.repo.FindByNameUnit(ctx, userID, in.Name, in.Unit); err == nil {
		return nil, &DuplicateError{Name: in.Name, Unit: in.Unit}
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	item := &models.InventoryItem{
		ID:               uuid.NewString(),
		UserID:           userID,
		Name:             in.Name,
		Category:         in.Category,
		Supplier:         strings.TrimSpace(in.Supplier),
		PurchaseCost:     cost,
		PurchaseQuantity: qty,
		Unit:             in.Unit,
		Stock:            qty, // initial stock = purchase quantity
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]models.InventoryItem, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, id string) (*models.InventoryItem, error) {
	return s.repo.FindByID(ctx, userID, id)
}

// Update applies a partial field patch. Absent fields are left untouched.
func (s *Service) Update(ctx context.Context, userID, id string, in UpdateItemInput) (*models.InventoryItem, error) {
	fields := map[string]interface{}{}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, &ValidationError{Message: "Name is required"}
		}
		fields["name"] = name
	}
	if in.Category != nil {
		if *in.Category != models.CategoryIngredient && *in.Category != models.CategoryOther {
			return nil, &ValidationError{Message: "Category must be 'ingredient' or 'other'"}
		}
		fields["category"] = *in.Category
	}
	if in.Supplier != nil {
		fields["supplier"] = strings.TrimSpace(*in.Supplier)
	}
	if in.PurchaseCost != nil {
		cost, err := parseNonNegative(*in.PurchaseCost)
		if err != nil {
			return nil, &ValidationError{Message: "Purchase cost must be a valid non-negative number"}
		}
		fields["purchase_cost"] = cost
	}
	if in.PurchaseQuantity != nil {
		qty, err := parsePositive(*in.PurchaseQuantity)
		if err != nil {
			return nil, &ValidationError{Message: "Purchase quantity must be a valid positive number"}
		}
		fields["purchase_quantity"] = qty
	}
	if in.Unit != nil {
		unit := strings.TrimSpace(*in.Unit)
		if unit == "" {
			return nil, &ValidationError{Message: "Unit is required"}
		}
		fields["unit"] = unit
	}
	if in.Stock != nil {
		stock, err := parseNonNegative(*in.Stock)
		if err != nil {
			return nil, &ValidationError{Message: "Stock must be a valid non-negative number"}
		}
		fields["stock"] = stock
	}

	if len(fields) > 0 {
		if err := s.repo.Updates(ctx, userID, id, fields); err != nil {
			return nil, err
		}
	}
	return s.repo.FindByID(ctx, userID, id)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

// AddStock adds a positive delta to the item's stock. The repository applies
// the delta relative to the stored value, never an absolute overwrite.
func (s *Service) AddStock(ctx context.Context, userID, id, quantityToAdd string) (*models.InventoryItem, error) {
	delta, err := parsePositive(quantityToAdd)
	if err != nil {
		return nil, &ValidationError{Message: "Quantity to add must be a valid positive number"}
	}

	if err := s.repo.AddStock(ctx, userID, id, delta); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, userID, id)
}

func parseNonNegative(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative value")
	}
	return d, nil
}

func parsePositive(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("value must be positive")
	}
	return d, nil
}
