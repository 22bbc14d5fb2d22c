package service

import (
	"errors"
	"fmt"
	"sync"

	"go-rider-pos/internal/model"
	"go-rider-pos/internal/repository"
	"go-rider-pos/internal/ws"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ledger error definitions. All are recoverable: the operation fails, state
// stays unchanged, and the handler maps them to user-facing responses.
var (
	ErrInvalidQuantity            = errors.New("quantity must be greater than zero")
	ErrInsufficientWarehouseStock = errors.New("insufficient warehouse stock")
	ErrInsufficientRiderStock     = errors.New("insufficient rider stock")
	ErrProductNotFound            = errors.New("product not found")
	ErrRiderNotFound              = errors.New("rider not found")
	ErrNotARider                  = errors.New("user is not an active rider")
)

// LedgerService is the stock ledger: warehouse quantities per product and
// per-rider quantities per product. Every mutation goes through Transact, a
// single critical section, so the check-then-commit steps of distribution and
// sales can never interleave.
type LedgerService interface {
	ReceiveWarehouseStock(productID uuid.UUID, quantity int, note string, userID, userName string) (*model.StockMovement, error)
	Distribute(productID, riderID uuid.UUID, quantity int, userID, userName string) (*model.StockMovement, error)
	GetWarehouseStock(productID uuid.UUID) (int, error)
	GetRiderStock(riderID, productID uuid.UUID) (int, error)
	// GetRiderStockTx is GetRiderStock inside a caller-held transaction,
	// used by the sale recorder's check phase.
	GetRiderStockTx(tx *gorm.DB, riderID, productID uuid.UUID) (int, error)
	// Deduct removes quantity from a rider's stock inside the caller's
	// transaction. Callers must be running under Transact.
	Deduct(tx *gorm.DB, riderID, productID uuid.UUID, quantity int, userID string) error
	// Transact runs fn in one DB transaction while holding the ledger lock.
	Transact(fn func(tx *gorm.DB) error) error

	// Read-only queries for the reporting screens; no mutation access.
	ListWarehouse() ([]model.WarehouseStock, error)
	ListRiderStock(riderID uuid.UUID) ([]model.RiderStock, error)
	ListAllRiderStock() ([]model.RiderStock, error)
	ListMovements(limit int) ([]model.StockMovement, error)
	ListRiderMovements(riderID uuid.UUID) ([]model.StockMovement, error)
}

type ledgerService struct {
	stockRepo    repository.StockRepository
	movementRepo repository.MovementRepository
	productRepo  repository.ProductRepository
	userRepo     repository.UserRepository
	db           *gorm.DB
	wsHub        *ws.Hub
	mu           sync.Mutex
}

func NewLedgerService(
	stockRepo repository.StockRepository,
	movementRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	db *gorm.DB,
	hub *ws.Hub,
) LedgerService {
	return &ledgerService{
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		productRepo:  productRepo,
		userRepo:     userRepo,
		db:           db,
		wsHub:        hub,
	}
}

func (s *ledgerService) Transact(fn func(tx *gorm.DB) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Transaction(fn)
}

// ReceiveWarehouseStock books quantity into the warehouse pool and logs a
// RECEIPT movement. This is the only way warehouse stock increases.
func (s *ledgerService) ReceiveWarehouseStock(productID uuid.UUID, quantity int, note string, userID, userName string) (*model.StockMovement, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		return nil, ErrProductNotFound
	}

	movement := &model.StockMovement{
		Kind:      model.MovementReceipt,
		ProductID: productID,
		Quantity:  quantity,
		Note:      note,
	}
	movement.CreatedBy = userID
	movement.UpdatedBy = userID

	err = s.Transact(func(tx *gorm.DB) error {
		current, err := s.stockRepo.WarehouseQty(tx, productID)
		if err != nil {
			return err
		}
		if err := s.stockRepo.SetWarehouseQty(tx, productID, current+quantity, userID); err != nil {
			return err
		}
		return s.movementRepo.Create(tx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.BroadcastJSON(map[string]interface{}{
		"type":   "stock_update",
		"action": "warehouse_receipt",
		"movement": map[string]interface{}{
			"id":         movement.ID,
			"product_id": productID,
			"quantity":   quantity,
		},
		"message": fmt.Sprintf("%s received %d units of '%s' into the warehouse", userName, quantity, product.Name),
	})

	return movement, nil
}

// Distribute transfers quantity from the warehouse to a rider's stock.
// All-or-nothing: on any failure neither side changes.
func (s *ledgerService) Distribute(productID, riderID uuid.UUID, quantity int, userID, userName string) (*model.StockMovement, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		return nil, ErrProductNotFound
	}

	rider, err := s.userRepo.FindByID(riderID)
	if err != nil {
		return nil, ErrRiderNotFound
	}
	if !rider.IsRider() || !rider.IsActive {
		return nil, ErrNotARider
	}

	movement := &model.StockMovement{
		Kind:      model.MovementAllocation,
		ProductID: productID,
		RiderID:   &riderID,
		Quantity:  quantity,
	}
	movement.CreatedBy = userID
	movement.UpdatedBy = userID

	err = s.Transact(func(tx *gorm.DB) error {
		warehouseQty, err := s.stockRepo.WarehouseQty(tx, productID)
		if err != nil {
			return err
		}
		if warehouseQty < quantity {
			return ErrInsufficientWarehouseStock
		}

		riderQty, err := s.stockRepo.RiderQty(tx, riderID, productID)
		if err != nil {
			return err
		}

		if err := s.stockRepo.SetWarehouseQty(tx, productID, warehouseQty-quantity, userID); err != nil {
			return err
		}
		if err := s.stockRepo.SetRiderQty(tx, riderID, productID, riderQty+quantity, userID); err != nil {
			return err
		}
		return s.movementRepo.Create(tx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.BroadcastJSON(map[string]interface{}{
		"type":   "stock_update",
		"action": "stock_distributed",
		"movement": map[string]interface{}{
			"id":         movement.ID,
			"product_id": productID,
			"rider_id":   riderID,
			"quantity":   quantity,
		},
		"message": fmt.Sprintf("%s distributed %d units of '%s' to %s", userName, quantity, product.Name, rider.FullName),
	})

	return movement, nil
}

// GetWarehouseStock returns the current warehouse quantity, zero if absent.
func (s *ledgerService) GetWarehouseStock(productID uuid.UUID) (int, error) {
	return s.stockRepo.WarehouseQty(s.db, productID)
}

// GetRiderStock returns the rider's current quantity, zero if absent.
func (s *ledgerService) GetRiderStock(riderID, productID uuid.UUID) (int, error) {
	return s.stockRepo.RiderQty(s.db, riderID, productID)
}

func (s *ledgerService) GetRiderStockTx(tx *gorm.DB, riderID, productID uuid.UUID) (int, error) {
	return s.stockRepo.RiderQty(tx, riderID, productID)
}

func (s *ledgerService) Deduct(tx *gorm.DB, riderID, productID uuid.UUID, quantity int, userID string) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	current, err := s.stockRepo.RiderQty(tx, riderID, productID)
	if err != nil {
		return err
	}
	if current < quantity {
		return ErrInsufficientRiderStock
	}
	return s.stockRepo.SetRiderQty(tx, riderID, productID, current-quantity, userID)
}

func (s *ledgerService) ListWarehouse() ([]model.WarehouseStock, error) {
	return s.stockRepo.ListWarehouse()
}

func (s *ledgerService) ListRiderStock(riderID uuid.UUID) ([]model.RiderStock, error) {
	return s.stockRepo.ListRiderStock(riderID)
}

func (s *ledgerService) ListAllRiderStock() ([]model.RiderStock, error) {
	return s.stockRepo.ListAllRiderStock()
}

func (s *ledgerService) ListMovements(limit int) ([]model.StockMovement, error) {
	return s.movementRepo.FindAll(limit)
}

// ListRiderMovements returns the allocations a rider has received.
func (s *ledgerService) ListRiderMovements(riderID uuid.UUID) ([]model.StockMovement, error) {
	return s.movementRepo.FindByRider(riderID)
}
