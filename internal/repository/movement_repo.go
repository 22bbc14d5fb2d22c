package repository

import (
	"time"

	"go-rider-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovementRepository interface {
	Create(tx *gorm.DB, movement *model.StockMovement) error
	FindAll(limit int) ([]model.StockMovement, error)
	FindByRider(riderID uuid.UUID) ([]model.StockMovement, error)
	// TotalByKind sums quantities per product for one movement kind, used by
	// the conservation checks in reporting.
	TotalByKind(kind model.MovementKind, productID uuid.UUID) (int, error)
	MovementPerDay(startDate, endDate time.Time) ([]MovementPerDayData, error)
}

// MovementPerDayData feeds the stock-movement chart: stock received into the
// warehouse vs stock allocated out to riders, per day.
type MovementPerDayData struct {
	Date      string `json:"date"`
	Received  int    `json:"received"`
	Allocated int    `json:"allocated"`
}

type movementRepo struct {
	db *gorm.DB
}

func NewMovementRepo(db *gorm.DB) MovementRepository {
	return &movementRepo{db}
}

func (r *movementRepo) Create(tx *gorm.DB, movement *model.StockMovement) error {
	return tx.Create(movement).Error
}

func (r *movementRepo) FindAll(limit int) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	q := r.db.Preload("Product").Preload("Rider").Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&movements).Error
	return movements, err
}

func (r *movementRepo) FindByRider(riderID uuid.UUID) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.Preload("Product").
		Where("rider_id = ?", riderID).
		Order("created_at DESC").
		Find(&movements).Error
	return movements, err
}

func (r *movementRepo) TotalByKind(kind model.MovementKind, productID uuid.UUID) (int, error) {
	var total int
	err := r.db.Model(&model.StockMovement{}).
		Where("kind = ? AND product_id = ?", kind, productID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}

func (r *movementRepo) MovementPerDay(startDate, endDate time.Time) ([]MovementPerDayData, error) {
	var results []MovementPerDayData

	rows, err := r.db.Model(&model.StockMovement{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN kind = 'RECEIPT' THEN quantity ELSE 0 END), 0) as received,
			COALESCE(SUM(CASE WHEN kind = 'ALLOCATION' THEN quantity ELSE 0 END), 0) as allocated
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data MovementPerDayData
		if err := rows.Scan(&data.Date, &data.Received, &data.Allocated); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}
