package service

import (
	"testing"

	"go-rider-pos/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSale_CashHappyPath(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "SKU-001", "Mineral Water", 10)
	rider := env.createRider(t, "rider@test.local", "Rider One")
	env.receive(t, product, 100)
	_, err := env.ledger.Distribute(product.ID, rider.ID, 20, env.admin.ID.String(), env.admin.FullName)
	require.NoError(t, err)

	record, err := env.sales.RecordSale(rider.ID, &RecordSaleRequest{
		Lines:          []CartLine{{ProductID: product.ID.String(), Quantity: 5}},
		PaymentMethod:  "CASH",
		AmountTendered: 60,
	}, rider.ID.String(), rider.FullName)
	require.NoError(t, err)

	assert.Equal(t, int64(50), record.Subtotal)
	assert.Equal(t, int64(0), record.Tax)
	assert.Equal(t, int64(50), record.Total)
	assert.Equal(t, int64(60), record.AmountTendered)
	assert.Equal(t, int64(10), record.Change)
	assert.Equal(t, model.PaymentCash, record.PaymentMethod)
	require.Len(t, record.Items, 1)
	assert.Equal(t, 5, record.Items[0].Quantity)
	assert.Equal(t, int64(10), record.Items[0].UnitPrice)
	assert.Equal(t, int64(50), record.Items[0].LineTotal)

	riderQty, err := env.ledger.GetRiderStock(rider.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, riderQty)

	warehouseQty, err := env.ledger.GetWarehouseStock(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 80, warehouseQty)

	// Conservation: warehouse + rider == received - sold.
	assert.Equal(t, 100-5, warehouseQty+riderQty)

	transactions, err := env.sales.GetAllTransactions()
	require.NoError(t, err)
	require.Len(t, transactions, 1)
}

func TestRecordSale_MultiLineOrderedItems(t *testing.T) {
	env := newTestEnv(t)
	water := env.createProduct(t, "SKU-001", "Mineral Water", 5000)
	tea := env.createProduct(t, "SKU-002", "Iced Tea", 7000)
	rider := env.createRider(t, "rider@test.local", "Rider One")
	env.receive(t, water, 50)
	env.receive(t, tea, 50)
	_, err := env.ledger.Distribute(water.ID, rider.ID, 10, env.admin.ID.String(), env.admin.FullName)
	require.NoError(t, err)
	_, err = env.ledger.Distribute(tea.ID, rider.ID, 10, env.admin.ID.String(), env.admin.FullName)
	require.NoError(t, err)

	record, err := env.sales.RecordSale(rider.ID, &RecordSaleRequest{
		Lines: []CartLine{
			{ProductID: tea.ID.String(), Quantity: 2},
			{ProductID: water.ID.String(), Quantity: 3},
		},
		PaymentMethod: "QRIS",
	}, rider.ID.String(), rider.FullName)
	require.NoError(t, err)

	assert.Equal(t, int64(2*7000+3*5000), record.Subtotal)
	require.Len(t, record.Items, 2)

	// Line order is preserved as submitted.
	reloaded, err := env.sales.GetTransactionByID(record.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 2)
	assert.Equal(t, 1, reloaded.Items[0].LineNo)
	assert.Equal(t, tea.ID, reloaded.Items[0].ProductID)
	assert.Equal(t, 2, reloaded.Items[1].LineNo)
	assert.Equal(t, water.ID, reloaded.Items[1].ProductID)
}

func TestRecordSale_InsufficientStockAbortsWholeCart(t *testing.T) {
	env := newTestEnv(t)
	water := env.createProduct(t, "SKU-001", "Mineral Water", 5000)
	tea := env.createProduct(t, "SKU-002", "Iced Tea", 7000)
	rider := env.createRider(t, "rider@test.local", "Rider One")
	env.receive(t, water, 50)
	env.receive(t, tea, 50)
	_, err := env.ledger.Distribute(water.ID, rider.ID, 10, env.admin.ID.String(), env.admin.FullName)
	require.NoError(t, err)
	_, err = env.ledger.Distribute(tea.ID, rider.ID, 1, env.admin.ID.String(), env.admin.FullName)
	require.NoError(t, err)

	// First line is coverable, second is not: nothing may be deducted.
	_, err = env.sales.RecordSale(rider.ID, &RecordSaleRequest{
		Lines: []CartLine{
			{ProductID: water.ID.String(), Quantity: 5},
			{ProductID: tea.ID.String(), Quantity: 2},
		},
		PaymentMethod: "QRIS",
	}, rider.ID.String(), rider.FullName)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	waterQty, err := env.ledger.GetRiderStock(rider.ID, water.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, waterQty)
	teaQty, err := env.ledger.GetRiderStock(rider.ID, tea.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, teaQty)

	transactions, err := env.sales.GetAllTransactions()
	require.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestRecordSale_DuplicateLinesAggregateDemand(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "SKU-001", "Mineral Water", 5000)
	rider := env.createRider(t, "rider@test.local", "Rider One")
	env.receive(t, product, 50)
	_, err := env.ledger.Distribute(product.ID, rider.ID, 8, env.admin.ID.String(), env.admin.FullName)
	require.NoError(t, err)

	// Each line alone fits, together they exceed the rider's 8 units.
	_, err = env.sales.RecordSale(rider.ID, &RecordSaleRequest{
		Lines: []CartLine{
			{ProductID: product.ID.String(), Quantity: 5},
			{ProductID: product.ID.String(), Quantity: 5},
		},
		PaymentMethod: "QRIS",
	}, rider.ID.String(), rider.FullName)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	qty, err := env.ledger.GetRiderStock(rider.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, qty)
}

func TestRecordSale_InsufficientPayment(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "SKU-001", "Mineral Water", 10)
	rider := env.createRider(t, "rider@test.local", "Rider One")
	env.receive(t, product, 100)
	_, err := env.ledger.Distribute(product.ID, rider.ID, 20, env.admin.ID.String(), env.admin.FullName)
	require.NoError(t, err)

	_, err = env.sales.RecordSale(rider.ID, &RecordSaleRequest{
		Lines:          []CartLine{{ProductID: product.ID.String(), Quantity: 5}},
		PaymentMethod:  "CASH",
		AmountTendered: 49,
	}, rider.ID.String(), rider.FullName)
	assert.ErrorIs(t, err, ErrInsufficientPayment)

	// Stock and log untouched.
	qty, err := env.ledger.GetRiderStock(rider.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, qty)

	transactions, err := env.sales.GetAllTransactions()
	require.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestRecordSale_QRISSkipsChange(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "SKU-001", "Mineral Water", 5000)
	rider := env.createRider(t, "rider@test.local", "Rider One")
	env.receive(t, product, 100)
	_, err := env.ledger.Distribute(product.ID, rider.ID, 20, env.admin.ID.String(), env.admin.FullName)
	require.NoError(t, err)

	record, err := env.sales.RecordSale(rider.ID, &RecordSaleRequest{
		Lines:         []CartLine{{ProductID: product.ID.String(), Quantity: 2}},
		PaymentMethod: "QRIS",
	}, rider.ID.String(), rider.FullName)
	require.NoError(t, err)

	assert.Equal(t, model.PaymentQRIS, record.PaymentMethod)
	assert.Equal(t, int64(0), record.AmountTendered)
	assert.Equal(t, int64(0), record.Change)
	assert.Equal(t, int64(10000), record.Total)
}

func TestRecordSale_TaxApplied(t *testing.T) {
	// 10% tax rate.
	env := newTestEnvWithTax(t, 1000)
	product := env.createProduct(t, "SKU-001", "Mineral Water", 10)
	rider := env.createRider(t, "rider@test.local", "Rider One")
	env.receive(t, product, 100)
	_, err := env.ledger.Distribute(product.ID, rider.ID, 20, env.admin.ID.String(), env.admin.FullName)
	require.NoError(t, err)

	record, err := env.sales.RecordSale(rider.ID, &RecordSaleRequest{
		Lines:          []CartLine{{ProductID: product.ID.String(), Quantity: 5}},
		PaymentMethod:  "CASH",
		AmountTendered: 60,
	}, rider.ID.String(), rider.FullName)
	require.NoError(t, err)

	assert.Equal(t, int64(50), record.Subtotal)
	assert.Equal(t, int64(5), record.Tax)
	assert.Equal(t, int64(55), record.Total)
	assert.Equal(t, int64(5), record.Change)
	assert.Equal(t, 1000, record.TaxRateBps)
}

func TestRecordSale_Rejections(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "SKU-001", "Mineral Water", 5000)
	rider := env.createRider(t, "rider@test.local", "Rider One")
	env.receive(t, product, 20)
	_, err := env.ledger.Distribute(product.ID, rider.ID, 10, env.admin.ID.String(), env.admin.FullName)
	require.NoError(t, err)

	// Empty cart.
	_, err = env.sales.RecordSale(rider.ID, &RecordSaleRequest{
		PaymentMethod: "CASH",
	}, rider.ID.String(), rider.FullName)
	assert.ErrorIs(t, err, ErrEmptyCart)

	// Unknown payment method fails struct validation.
	_, err = env.sales.RecordSale(rider.ID, &RecordSaleRequest{
		Lines:         []CartLine{{ProductID: product.ID.String(), Quantity: 1}},
		PaymentMethod: "CARD",
	}, rider.ID.String(), rider.FullName)
	assert.Error(t, err)

	// Non-positive line quantity.
	_, err = env.sales.RecordSale(rider.ID, &RecordSaleRequest{
		Lines:         []CartLine{{ProductID: product.ID.String(), Quantity: 0}},
		PaymentMethod: "CASH",
	}, rider.ID.String(), rider.FullName)
	assert.Error(t, err)

	// Admins cannot record sales.
	_, err = env.sales.RecordSale(env.admin.ID, &RecordSaleRequest{
		Lines:         []CartLine{{ProductID: product.ID.String(), Quantity: 1}},
		PaymentMethod: "QRIS",
	}, env.admin.ID.String(), env.admin.FullName)
	assert.ErrorIs(t, err, ErrNotARider)
}

func TestRecordSale_PriceSnapshotSurvivesCatalogEdits(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "SKU-001", "Mineral Water", 5000)
	rider := env.createRider(t, "rider@test.local", "Rider One")
	env.receive(t, product, 100)
	_, err := env.ledger.Distribute(product.ID, rider.ID, 20, env.admin.ID.String(), env.admin.FullName)
	require.NoError(t, err)

	record, err := env.sales.RecordSale(rider.ID, &RecordSaleRequest{
		Lines:         []CartLine{{ProductID: product.ID.String(), Quantity: 3}},
		PaymentMethod: "QRIS",
	}, rider.ID.String(), rider.FullName)
	require.NoError(t, err)

	// Admin raises the price afterwards.
	product.Price = 9000
	_, err = env.catalog.UpdateProduct(product.ID, product, env.admin.ID.String(), env.admin.FullName)
	require.NoError(t, err)

	// The recorded transaction keeps the price at time of sale.
	reloaded, err := env.sales.GetTransactionByID(record.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.Equal(t, int64(5000), reloaded.Items[0].UnitPrice)
	assert.Equal(t, int64(15000), reloaded.Total)
}

func TestGetTransactionsByRider(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "SKU-001", "Mineral Water", 5000)
	riderOne := env.createRider(t, "one@test.local", "Rider One")
	riderTwo := env.createRider(t, "two@test.local", "Rider Two")
	env.receive(t, product, 100)
	for _, rider := range []*model.User{riderOne, riderTwo} {
		_, err := env.ledger.Distribute(product.ID, rider.ID, 10, env.admin.ID.String(), env.admin.FullName)
		require.NoError(t, err)
		_, err = env.sales.RecordSale(rider.ID, &RecordSaleRequest{
			Lines:         []CartLine{{ProductID: product.ID.String(), Quantity: 1}},
			PaymentMethod: "QRIS",
		}, rider.ID.String(), rider.FullName)
		require.NoError(t, err)
	}

	all, err := env.sales.GetAllTransactions()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := env.sales.GetTransactionsByRider(riderOne.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, riderOne.ID, mine[0].RiderID)
}
