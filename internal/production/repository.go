package production

import (
	"context"
	"errors"

	"bakehouse-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the persistence surface the engine needs. Transaction hands a
// repository bound to the running transaction to fn; everything the engine does
// inside fn commits or rolls back as one unit. Tests substitute an in-memory
// implementation whose Transaction simply calls fn on itself.
type Repository interface {
	Transaction(ctx context.Context, fn func(r Repository) error) error

	RecipeWithItems(ctx context.Context, userID, recipeID string) (*models.Recipe, error)
	RecipesWithItems(ctx context.Context, userID string) ([]models.Recipe, error)
	InventoryByID(ctx context.Context, id string) (*models.InventoryItem, error)
	AdjustStock(ctx context.Context, inventoryID string, delta decimal.Decimal) error
	DeductStock(ctx context.Context, inventoryID string, amount decimal.Decimal) error

	CreateLog(ctx context.Context, log *models.ProductionLog) error
	CreateLogItem(ctx context.Context, item *models.ProductionLogItem) error
	LogByID(ctx context.Context, userID, logID string) (*models.ProductionLog, error)
	LogItems(ctx context.Context, logID string) ([]models.ProductionLogItem, error)
	RecentLogs(ctx context.Context, userID string, limit int) ([]models.ProductionLog, error)
	DeleteLog(ctx context.Context, logID string) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Transaction(ctx context.Context, fn func(Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}

func (r *gormRepository) RecipeWithItems(ctx context.Context, userID, recipeID string) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", recipeID, userID).
		First(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &RecipeNotFoundError{RecipeID: recipeID}
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *gormRepository) RecipesWithItems(ctx context.Context, userID string) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Inventory").
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&recipes).Error
	return recipes, err
}

// InventoryByID locks the row for the rest of the transaction so two
// concurrent batches cannot both validate against the same stock value.
func (r *gormRepository) InventoryByID(ctx context.Context, id string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &InventoryNotFoundError{InventoryID: id}
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *gormRepository) AdjustStock(ctx context.Context, inventoryID string, delta decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ?", inventoryID).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta)).Error
}

// DeductStock subtracts amount only while enough stock remains. The WHERE
// clause is the guard: a decrement that would drive stock negative matches no
// row and comes back as an insufficient-stock error instead.
func (r *gormRepository) DeductStock(ctx context.Context, inventoryID string, amount decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ? AND stock >= ?", inventoryID, amount).
		UpdateColumn("stock", gorm.Expr("stock - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var item models.InventoryItem
		err := r.db.WithContext(ctx).First(&item, "id = ?", inventoryID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &InventoryNotFoundError{InventoryID: inventoryID}
		}
		if err != nil {
			return err
		}
		return &InsufficientStockError{
			Name:      item.Name,
			Unit:      item.Unit,
			Required:  amount,
			Available: item.Stock,
		}
	}
	return nil
}

func (r *gormRepository) CreateLog(ctx context.Context, log *models.ProductionLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *gormRepository) CreateLogItem(ctx context.Context, item *models.ProductionLogItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *gormRepository) LogByID(ctx context.Context, userID, logID string) (*models.ProductionLog, error) {
	var log models.ProductionLog
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", logID, userID).
		First(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLogNotFound
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *gormRepository) LogItems(ctx context.Context, logID string) ([]models.ProductionLogItem, error) {
	var items []models.ProductionLogItem
	err := r.db.WithContext(ctx).
		Where("production_log_id = ?", logID).
		Find(&items).Error
	return items, err
}

func (r *gormRepository) RecentLogs(ctx context.Context, userID string, limit int) ([]models.ProductionLog, error) {
	var logs []models.ProductionLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

func (r *gormRepository) DeleteLog(ctx context.Context, logID string) error {
	return r.db.WithContext(ctx).Delete(&models.ProductionLog{}, "id = ?", logID).Error
}
