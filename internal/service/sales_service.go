package service

import (
	"errors"
	"fmt"

	"go-rider-pos/internal/model"
	"go-rider-pos/internal/repository"
	"go-rider-pos/internal/ws"
	"go-rider-pos/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recorder error definitions.
var (
	// ErrInsufficientStock aggregates per-line shortfalls: any line the
	// rider cannot cover aborts the whole sale before anything is deducted.
	ErrInsufficientStock    = errors.New("insufficient stock for one or more cart lines")
	ErrInsufficientPayment  = errors.New("amount tendered is less than the total")
	ErrEmptyCart            = errors.New("cart has no lines")
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
)

// CartLine is one requested sale line.
type CartLine struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// RecordSaleRequest is the point-of-sale cart submitted by a rider.
type RecordSaleRequest struct {
	Lines          []CartLine `json:"lines" validate:"required,min=1,dive"`
	PaymentMethod  string     `json:"payment_method" validate:"required,oneof=CASH QRIS"`
	AmountTendered int64      `json:"amount_tendered" validate:"gte=0"` // cash only
}

// SalesService is the transaction recorder. RecordSale validates the cart
// against the rider's stock, computes totals, deducts stock and appends an
// immutable Transaction — check then commit, inside one ledger critical
// section so the commit step can never fail after the checks pass.
type SalesService interface {
	RecordSale(riderID uuid.UUID, req *RecordSaleRequest, userID, userName string) (*model.Transaction, error)
	GetAllTransactions() ([]model.Transaction, error)
	GetTransactionsByRider(riderID uuid.UUID) ([]model.Transaction, error)
	GetTransactionByID(id uuid.UUID) (*model.Transaction, error)
}

type salesService struct {
	ledger      LedgerService
	txRepo      repository.TransactionRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	taxRateBps  int
	wsHub       *ws.Hub
}

// NewSalesService wires the recorder. taxRateBps is the configured tax rate
// in basis points (e.g. 1100 = 11%); zero disables tax.
func NewSalesService(
	ledger LedgerService,
	txRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	taxRateBps int,
	hub *ws.Hub,
) SalesService {
	return &salesService{
		ledger:      ledger,
		txRepo:      txRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		taxRateBps:  taxRateBps,
		wsHub:       hub,
	}
}

func (s *salesService) RecordSale(riderID uuid.UUID, req *RecordSaleRequest, userID, userName string) (*model.Transaction, error) {
	if len(req.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	method := model.PaymentMethod(req.PaymentMethod)
	if method != model.PaymentCash && method != model.PaymentQRIS {
		return nil, ErrUnknownPaymentMethod
	}

	rider, err := s.userRepo.FindByID(riderID)
	if err != nil {
		return nil, ErrRiderNotFound
	}
	if !rider.IsRider() || !rider.IsActive {
		return nil, ErrNotARider
	}

	lines := make([]struct {
		productID uuid.UUID
		quantity  int
	}, len(req.Lines))
	required := make(map[uuid.UUID]int) // per-product demand across lines
	for i, line := range req.Lines {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			return nil, ErrProductNotFound
		}
		lines[i].productID = productID
		lines[i].quantity = line.Quantity
		required[productID] += line.Quantity
	}

	var record *model.Transaction

	err = s.ledger.Transact(func(tx *gorm.DB) error {
		// Check phase: every product's aggregate demand must be covered by
		// the rider's stock before anything is deducted.
		for productID, qty := range required {
			available, err := s.ledger.GetRiderStockTx(tx, riderID, productID)
			if err != nil {
				return err
			}
			if available < qty {
				return ErrInsufficientStock
			}
		}

		// Totals: snapshot each product's current price so later catalog
		// edits never change this record.
		items := make([]model.TransactionItem, len(lines))
		var subtotal int64
		for i, line := range lines {
			product, err := s.productRepo.FindByIDTx(tx, line.productID)
			if err != nil {
				return ErrProductNotFound
			}
			lineTotal := product.Price * int64(line.quantity)
			subtotal += lineTotal
			items[i] = model.TransactionItem{
				LineNo:    i + 1,
				ProductID: line.productID,
				Quantity:  line.quantity,
				UnitPrice: product.Price,
				LineTotal: lineTotal,
			}
			items[i].CreatedBy = userID
			items[i].UpdatedBy = userID
		}

		tax := subtotal * int64(s.taxRateBps) / 10000
		total := subtotal + tax

		var tendered, change int64
		if method == model.PaymentCash {
			tendered = req.AmountTendered
			if tendered < total {
				return ErrInsufficientPayment
			}
			change = tendered - total
		}

		// Commit phase: guaranteed to succeed — the ledger lock has been
		// held since the check phase.
		for _, line := range lines {
			if err := s.ledger.Deduct(tx, riderID, line.productID, line.quantity, userID); err != nil {
				return err
			}
		}

		record = &model.Transaction{
			RiderID:        riderID,
			Items:          items,
			PaymentMethod:  method,
			Subtotal:       subtotal,
			TaxRateBps:     s.taxRateBps,
			Tax:            tax,
			Total:          total,
			AmountTendered: tendered,
			Change:         change,
		}
		record.CreatedBy = userID
		record.UpdatedBy = userID

		return s.txRepo.Create(tx, record)
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.BroadcastJSON(map[string]interface{}{
		"type":   "stock_update",
		"action": "sale_recorded",
		"transaction": map[string]interface{}{
			"id":             record.ID,
			"rider_id":       riderID,
			"payment_method": method,
			"total":          record.Total,
			"line_count":     len(record.Items),
		},
		"message": fmt.Sprintf("%s recorded a %s sale of %d line(s)", userName, method, len(record.Items)),
	})

	return record, nil
}

func (s *salesService) GetAllTransactions() ([]model.Transaction, error) {
	return s.txRepo.FindAll()
}

func (s *salesService) GetTransactionsByRider(riderID uuid.UUID) ([]model.Transaction, error) {
	return s.txRepo.FindByRider(riderID)
}

func (s *salesService) GetTransactionByID(id uuid.UUID) (*model.Transaction, error) {
	return s.txRepo.FindByID(id)
}
