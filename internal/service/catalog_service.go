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

var (
	ErrSKUExists        = errors.New("SKU already exists")
	ErrCategoryExists   = errors.New("category already exists")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryInUse    = errors.New("category still has products")
)

// CatalogService manages categories and products. Stock quantities are not
// edited here: they only move through the ledger.
type CatalogService interface {
	CreateCategory(req *model.Category, userID string) error
	UpdateCategory(id uuid.UUID, name string, userID string) (*model.Category, error)
	DeleteCategory(id uuid.UUID, userID string) error
	GetCategories() ([]model.Category, error)

	CreateProduct(req *model.Product, userID, userName string) error
	UpdateProduct(id uuid.UUID, req *model.Product, userID, userName string) (*model.Product, error)
	GetProducts() ([]model.Product, error)
	GetProduct(id uuid.UUID) (*model.Product, error)
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	stockRepo    repository.StockRepository
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	stockRepo repository.StockRepository,
	db *gorm.DB,
	hub *ws.Hub,
) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		stockRepo:    stockRepo,
		db:           db,
		wsHub:        hub,
	}
}

func (s *catalogService) CreateCategory(req *model.Category, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	existing, _ := s.categoryRepo.FindByName(req.Name)
	if existing != nil && existing.ID != uuid.Nil {
		return ErrCategoryExists
	}

	req.CreatedBy = userID
	req.UpdatedBy = userID
	return s.categoryRepo.Create(req)
}

func (s *catalogService) UpdateCategory(id uuid.UUID, name string, userID string) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		return nil, ErrCategoryNotFound
	}

	category.Name = name
	category.UpdatedBy = userID
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *catalogService) DeleteCategory(id uuid.UUID, userID string) error {
	if _, err := s.categoryRepo.FindByID(id); err != nil {
		return ErrCategoryNotFound
	}

	count, err := s.categoryRepo.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}

	return s.categoryRepo.Delete(id)
}

func (s *catalogService) GetCategories() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

func (s *catalogService) CreateProduct(req *model.Product, userID, userName string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if _, err := s.categoryRepo.FindByID(req.CategoryID); err != nil {
		return ErrCategoryNotFound
	}

	existing, _ := s.productRepo.FindBySKU(req.SKU)
	if existing != nil && existing.ID != uuid.Nil {
		return ErrSKUExists
	}

	req.CreatedBy = userID
	req.UpdatedBy = userID
	req.CreatedByUserID = &userID
	req.UpdatedByUserID = &userID

	if err := s.productRepo.Create(req); err != nil {
		return err
	}

	// Seed the warehouse row at zero so the ledger has a pool to receive into.
	if err := s.stockRepo.SetWarehouseQty(s.db, req.ID, 0, userID); err != nil {
		return err
	}

	s.wsHub.BroadcastJSON(map[string]interface{}{
		"type":   "catalog_update",
		"action": "product_created",
		"product": map[string]interface{}{
			"id":    req.ID,
			"sku":   req.SKU,
			"name":  req.Name,
			"price": req.Price,
		},
		"message": fmt.Sprintf("%s created product '%s'", userName, req.Name),
	})

	return nil
}

func (s *catalogService) UpdateProduct(id uuid.UUID, req *model.Product, userID, userName string) (*model.Product, error) {
	existing, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	if req.SKU != existing.SKU {
		other, _ := s.productRepo.FindBySKU(req.SKU)
		if other != nil && other.ID != uuid.Nil && other.ID != id {
			return nil, ErrSKUExists
		}
	}
	if req.CategoryID != existing.CategoryID {
		if _, err := s.categoryRepo.FindByID(req.CategoryID); err != nil {
			return nil, ErrCategoryNotFound
		}
	}

	existing.Name = req.Name
	existing.SKU = req.SKU
	existing.CategoryID = req.CategoryID
	existing.Unit = req.Unit
	existing.Price = req.Price
	existing.UpdatedBy = userID
	existing.UpdatedByUserID = &userID

	if err := s.productRepo.Update(existing); err != nil {
		return nil, err
	}

	s.wsHub.BroadcastJSON(map[string]interface{}{
		"type":   "catalog_update",
		"action": "product_updated",
		"product": map[string]interface{}{
			"id":    existing.ID,
			"sku":   existing.SKU,
			"name":  existing.Name,
			"price": existing.Price,
		},
		"message": fmt.Sprintf("%s updated product '%s'", userName, existing.Name),
	})

	return existing, nil
}

func (s *catalogService) GetProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *catalogService) GetProduct(id uuid.UUID) (*model.Product, error) {
	return s.productRepo.FindByID(id)
}
