package service

import (
	"testing"

	"go-rider-pos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProduct_SeedsWarehouseRow(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "SKU-001", "Mineral Water", 5000)

	qty, err := env.ledger.GetWarehouseStock(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, qty)

	rows, err := env.ledger.ListWarehouse()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, product.ID, rows[0].ProductID)
}

func TestCreateProduct_DuplicateSKU(t *testing.T) {
	env := newTestEnv(t)
	first := env.createProduct(t, "SKU-001", "Mineral Water", 5000)

	dup := &model.Product{
		SKU:        "SKU-001",
		Name:       "Sparkling Water",
		CategoryID: first.CategoryID,
		Unit:       "bottle",
		Price:      6000,
	}
	err := env.catalog.CreateProduct(dup, env.admin.ID.String(), env.admin.FullName)
	assert.ErrorIs(t, err, ErrSKUExists)
}

func TestCreateProduct_UnknownCategory(t *testing.T) {
	env := newTestEnv(t)

	err := env.catalog.CreateProduct(&model.Product{
		SKU:        "SKU-001",
		Name:       "Mineral Water",
		CategoryID: uuid.New(),
		Unit:       "bottle",
		Price:      5000,
	}, env.admin.ID.String(), env.admin.FullName)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestUpdateProduct(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "SKU-001", "Mineral Water", 5000)

	product.Name = "Mineral Water 600ml"
	product.Price = 5500
	updated, err := env.catalog.UpdateProduct(product.ID, product, env.admin.ID.String(), env.admin.FullName)
	require.NoError(t, err)
	assert.Equal(t, "Mineral Water 600ml", updated.Name)
	assert.Equal(t, int64(5500), updated.Price)

	reloaded, err := env.catalog.GetProduct(product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5500), reloaded.Price)
}

func TestUpdateProduct_SKUCollision(t *testing.T) {
	env := newTestEnv(t)
	env.createProduct(t, "SKU-001", "Mineral Water", 5000)
	other := env.createProduct(t, "SKU-002", "Iced Tea", 7000)

	other.SKU = "SKU-001"
	_, err := env.catalog.UpdateProduct(other.ID, other, env.admin.ID.String(), env.admin.FullName)
	assert.ErrorIs(t, err, ErrSKUExists)
}

func TestCategoryLifecycle(t *testing.T) {
	env := newTestEnv(t)

	category := &model.Category{Name: "Snacks"}
	require.NoError(t, env.catalog.CreateCategory(category, env.admin.ID.String()))

	// Duplicate name is rejected.
	err := env.catalog.CreateCategory(&model.Category{Name: "Snacks"}, env.admin.ID.String())
	assert.ErrorIs(t, err, ErrCategoryExists)

	renamed, err := env.catalog.UpdateCategory(category.ID, "Dry Snacks", env.admin.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Dry Snacks", renamed.Name)

	require.NoError(t, env.catalog.DeleteCategory(category.ID, env.admin.ID.String()))

	categories, err := env.catalog.GetCategories()
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestDeleteCategory_InUse(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "SKU-001", "Mineral Water", 5000)

	err := env.catalog.DeleteCategory(product.CategoryID, env.admin.ID.String())
	assert.ErrorIs(t, err, ErrCategoryInUse)
}
