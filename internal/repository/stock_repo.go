package repository

import (
	"errors"

	"go-rider-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockRepository is the storage boundary of the stock ledger. Mutating
// methods take the caller's transaction handle so multi-row updates commit
// or roll back as one unit (same pattern as the sale recorder).
type StockRepository interface {
	WarehouseQty(tx *gorm.DB, productID uuid.UUID) (int, error)
	SetWarehouseQty(tx *gorm.DB, productID uuid.UUID, qty int, updatedBy string) error
	RiderQty(tx *gorm.DB, riderID, productID uuid.UUID) (int, error)
	SetRiderQty(tx *gorm.DB, riderID, productID uuid.UUID, qty int, updatedBy string) error
	ListWarehouse() ([]model.WarehouseStock, error)
	ListRiderStock(riderID uuid.UUID) ([]model.RiderStock, error)
	ListAllRiderStock() ([]model.RiderStock, error)
}

type stockRepo struct {
	db *gorm.DB
}

func NewStockRepo(db *gorm.DB) StockRepository {
	return &stockRepo{db}
}

// WarehouseQty returns the warehouse quantity, zero when no row exists yet.
func (r *stockRepo) WarehouseQty(tx *gorm.DB, productID uuid.UUID) (int, error) {
	var stock model.WarehouseStock
	err := tx.First(&stock, "product_id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return stock.Quantity, nil
}

func (r *stockRepo) SetWarehouseQty(tx *gorm.DB, productID uuid.UUID, qty int, updatedBy string) error {
	var stock model.WarehouseStock
	err := tx.First(&stock, "product_id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&model.WarehouseStock{
			ProductID: productID,
			Quantity:  qty,
			UpdatedBy: updatedBy,
		}).Error
	}
	if err != nil {
		return err
	}
	return tx.Model(&model.WarehouseStock{}).
		Where("product_id = ?", productID).
		Updates(map[string]interface{}{
			"quantity":   qty,
			"updated_by": updatedBy,
		}).Error
}

// RiderQty returns the rider's quantity for a product, zero when absent.
func (r *stockRepo) RiderQty(tx *gorm.DB, riderID, productID uuid.UUID) (int, error) {
	var stock model.RiderStock
	err := tx.First(&stock, "rider_id = ? AND product_id = ?", riderID, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return stock.Quantity, nil
}

func (r *stockRepo) SetRiderQty(tx *gorm.DB, riderID, productID uuid.UUID, qty int, updatedBy string) error {
	var stock model.RiderStock
	err := tx.First(&stock, "rider_id = ? AND product_id = ?", riderID, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&model.RiderStock{
			RiderID:   riderID,
			ProductID: productID,
			Quantity:  qty,
			UpdatedBy: updatedBy,
		}).Error
	}
	if err != nil {
		return err
	}
	return tx.Model(&model.RiderStock{}).
		Where("rider_id = ? AND product_id = ?", riderID, productID).
		Updates(map[string]interface{}{
			"quantity":   qty,
			"updated_by": updatedBy,
		}).Error
}

func (r *stockRepo) ListWarehouse() ([]model.WarehouseStock, error) {
	var stocks []model.WarehouseStock
	err := r.db.Preload("Product").Preload("Product.Category").Find(&stocks).Error
	return stocks, err
}

func (r *stockRepo) ListRiderStock(riderID uuid.UUID) ([]model.RiderStock, error) {
	var stocks []model.RiderStock
	err := r.db.Preload("Product").Where("rider_id = ?", riderID).Find(&stocks).Error
	return stocks, err
}

func (r *stockRepo) ListAllRiderStock() ([]model.RiderStock, error) {
	var stocks []model.RiderStock
	err := r.db.Preload("Product").Preload("Rider").Find(&stocks).Error
	return stocks, err
}
