package inventory

import (
	"context"
	"errors"

	"bakehouse-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository abstracts persistence for the inventory service. Every method is
// tenant-scoped by userID so no call can touch another tenant's rows.
type Repository interface {
	Create(ctx context.Context, item *models.InventoryItem) error
	ListByUser(ctx context.Context, userID string) ([]models.InventoryItem, error)
	FindByID(ctx context.Context, userID, id string) (*models.InventoryItem, error)
	FindByNameUnit(ctx context.Context, userID, name, unit string) (*models.InventoryItem, error)
	Updates(ctx context.Context, userID, id string, fields map[string]interface{}) error
	AddStock(ctx context.Context, userID, id string, delta decimal.Decimal) error
	Delete(ctx context.Context, userID, id string) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, item *models.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *gormRepository) ListByUser(ctx context.Context, userID string) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *gormRepository) FindByID(ctx context.Context, userID, id string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *gormRepository) FindByNameUnit(ctx context.Context, userID, name, unit string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND unit = ? AND LOWER(name) = LOWER(?)", userID, unit, name).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *gormRepository) Updates(ctx context.Context, userID, id string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddStock applies the delta relative to the stored value, so a concurrent
// production deduction between the caller's read and this write is preserved.
func (r *gormRepository) AddStock(ctx context.Context, userID, id string, delta decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ? AND user_id = ?", id, userID).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.InventoryItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
