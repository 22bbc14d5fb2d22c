package service

import (
	"sort"
	"time"

	"go-rider-pos/internal/repository"
)

// ReportService exposes read-only aggregates over the sales and movement
// logs for the admin dashboard and report screens. It holds no mutation
// access to the ledger.
type ReportService interface {
	GetDashboardStats() (*repository.DashboardStats, error)
	GetSalesSummary(startDate, endDate time.Time) (*repository.SalesSummary, error)
	GetSalesByRider(startDate, endDate time.Time) ([]repository.RiderSalesData, error)
	GetStockMovement(days int) ([]StockMovementPoint, error)
}

// StockMovementPoint merges warehouse receipts, rider allocations and sales
// into one chart row per day.
type StockMovementPoint struct {
	Date      string `json:"date"`
	Received  int    `json:"received"`
	Allocated int    `json:"allocated"`
	Sold      int    `json:"sold"`
}

type reportService struct {
	txRepo       repository.TransactionRepository
	movementRepo repository.MovementRepository
}

func NewReportService(txRepo repository.TransactionRepository, movementRepo repository.MovementRepository) ReportService {
	return &reportService{txRepo: txRepo, movementRepo: movementRepo}
}

func (s *reportService) GetDashboardStats() (*repository.DashboardStats, error) {
	return s.txRepo.DashboardStats()
}

func (s *reportService) GetSalesSummary(startDate, endDate time.Time) (*repository.SalesSummary, error) {
	return s.txRepo.SalesSummary(startDate, endDate)
}

func (s *reportService) GetSalesByRider(startDate, endDate time.Time) ([]repository.RiderSalesData, error) {
	return s.txRepo.SalesByRider(startDate, endDate)
}

func (s *reportService) GetStockMovement(days int) ([]StockMovementPoint, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	movements, err := s.movementRepo.MovementPerDay(startDate, endDate)
	if err != nil {
		return nil, err
	}
	sold, err := s.txRepo.SoldPerDay(startDate, endDate)
	if err != nil {
		return nil, err
	}

	points := make([]StockMovementPoint, 0, len(movements))
	seen := make(map[string]bool)
	for _, m := range movements {
		points = append(points, StockMovementPoint{
			Date:      m.Date,
			Received:  m.Received,
			Allocated: m.Allocated,
			Sold:      sold[m.Date],
		})
		seen[m.Date] = true
	}
	// Days with sales but no warehouse movement still get a row.
	for date, qty := range sold {
		if !seen[date] {
			points = append(points, StockMovementPoint{Date: date, Sold: qty})
		}
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points, nil
}
