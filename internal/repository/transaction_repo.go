package repository

import (
	"time"

	"go-rider-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionRepository appends and queries the immutable sales log. There is
// deliberately no Update or Delete: recorded transactions never change.
type TransactionRepository interface {
	Create(tx *gorm.DB, transaction *model.Transaction) error
	FindAll() ([]model.Transaction, error)
	FindByID(id uuid.UUID) (*model.Transaction, error)
	FindByRider(riderID uuid.UUID) ([]model.Transaction, error)
	TotalSoldByProduct(productID uuid.UUID) (int, error)
	SalesSummary(startDate, endDate time.Time) (*SalesSummary, error)
	SalesByRider(startDate, endDate time.Time) ([]RiderSalesData, error)
	SoldPerDay(startDate, endDate time.Time) (map[string]int, error)
	DashboardStats() (*DashboardStats, error)
}

// SalesSummary aggregates the sales log over a date range.
type SalesSummary struct {
	TransactionCount int64 `json:"transaction_count"`
	Revenue          int64 `json:"revenue"`
	CashRevenue      int64 `json:"cash_revenue"`
	QRISRevenue      int64 `json:"qris_revenue"`
	UnitsSold        int64 `json:"units_sold"`
}

// RiderSalesData is the per-rider breakdown for the sales report.
type RiderSalesData struct {
	RiderID          uuid.UUID `json:"rider_id"`
	RiderName        string    `json:"rider_name"`
	TransactionCount int64     `json:"transaction_count"`
	Revenue          int64     `json:"revenue"`
}

// DashboardStats is the admin dashboard overview.
type DashboardStats struct {
	TotalProducts     int64 `json:"total_products"`
	LowStockCount     int64 `json:"low_stock_count"` // warehouse rows below threshold
	WarehouseUnits    int64 `json:"warehouse_units"`
	SalesToday        int64 `json:"sales_today"`
	RevenueToday      int64 `json:"revenue_today"`
	ActiveRiderStocks int64 `json:"active_rider_stocks"` // rider rows holding stock
}

const lowStockThreshold = 10

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) Create(tx *gorm.DB, transaction *model.Transaction) error {
	return tx.Create(transaction).Error
}

func (r *transactionRepo) FindAll() ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("line_no ASC") }).
		Preload("Items.Product").
		Preload("Rider").
		Order("created_at DESC").
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByID(id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("line_no ASC") }).
		Preload("Items.Product").
		Preload("Rider").
		First(&transaction, "id = ?", id).Error
	return &transaction, err
}

func (r *transactionRepo) FindByRider(riderID uuid.UUID) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("line_no ASC") }).
		Preload("Items.Product").
		Where("rider_id = ?", riderID).
		Order("created_at DESC").
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) TotalSoldByProduct(productID uuid.UUID) (int, error) {
	var total int
	err := r.db.Model(&model.TransactionItem{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}

func (r *transactionRepo) SalesSummary(startDate, endDate time.Time) (*SalesSummary, error) {
	var summary SalesSummary

	base := r.db.Model(&model.Transaction{}).
		Where("created_at BETWEEN ? AND ?", startDate, endDate)

	if err := base.Session(&gorm.Session{}).Count(&summary.TransactionCount).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).
		Select("COALESCE(SUM(total), 0)").Scan(&summary.Revenue).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("payment_method = ?", model.PaymentCash).
		Select("COALESCE(SUM(total), 0)").Scan(&summary.CashRevenue).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("payment_method = ?", model.PaymentQRIS).
		Select("COALESCE(SUM(total), 0)").Scan(&summary.QRISRevenue).Error; err != nil {
		return nil, err
	}

	err := r.db.Model(&model.TransactionItem{}).
		Joins("JOIN transactions ON transactions.id = transaction_items.transaction_id").
		Where("transactions.created_at BETWEEN ? AND ?", startDate, endDate).
		Select("COALESCE(SUM(transaction_items.quantity), 0)").
		Scan(&summary.UnitsSold).Error
	if err != nil {
		return nil, err
	}

	return &summary, nil
}

func (r *transactionRepo) SalesByRider(startDate, endDate time.Time) ([]RiderSalesData, error) {
	var results []RiderSalesData

	rows, err := r.db.Model(&model.Transaction{}).
		Select(`
			transactions.rider_id,
			users.full_name,
			COUNT(transactions.id) as transaction_count,
			COALESCE(SUM(transactions.total), 0) as revenue
		`).
		Joins("JOIN users ON users.id = transactions.rider_id").
		Where("transactions.created_at BETWEEN ? AND ?", startDate, endDate).
		Group("transactions.rider_id, users.full_name").
		Order("revenue DESC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data RiderSalesData
		if err := rows.Scan(&data.RiderID, &data.RiderName, &data.TransactionCount, &data.Revenue); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}

func (r *transactionRepo) SoldPerDay(startDate, endDate time.Time) (map[string]int, error) {
	rows, err := r.db.Model(&model.TransactionItem{}).
		Select(`DATE(transactions.created_at) as date, COALESCE(SUM(transaction_items.quantity), 0) as sold`).
		Joins("JOIN transactions ON transactions.id = transaction_items.transaction_id").
		Where("transactions.created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(transactions.created_at)").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make(map[string]int)
	for rows.Next() {
		var date string
		var sold int
		if err := rows.Scan(&date, &sold); err != nil {
			return nil, err
		}
		results[date] = sold
	}

	return results, nil
}

func (r *transactionRepo) DashboardStats() (*DashboardStats, error) {
	var stats DashboardStats

	r.db.Model(&model.Product{}).Count(&stats.TotalProducts)
	r.db.Model(&model.WarehouseStock{}).Where("quantity < ?", lowStockThreshold).Count(&stats.LowStockCount)
	r.db.Model(&model.WarehouseStock{}).Select("COALESCE(SUM(quantity), 0)").Scan(&stats.WarehouseUnits)
	r.db.Model(&model.RiderStock{}).Where("quantity > 0").Count(&stats.ActiveRiderStocks)

	today := time.Now().Truncate(24 * time.Hour)
	r.db.Model(&model.Transaction{}).Where("created_at >= ?", today).Count(&stats.SalesToday)
	r.db.Model(&model.Transaction{}).Where("created_at >= ?", today).
		Select("COALESCE(SUM(total), 0)").Scan(&stats.RevenueToday)

	return &stats, nil
}
