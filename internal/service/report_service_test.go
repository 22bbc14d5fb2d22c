package service

import (
	"testing"
	"time"

	"go-rider-pos/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSalesSummary(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "SKU-001", "Mineral Water", 10)
	rider := env.createRider(t, "rider@test.local", "Rider One")
	env.receive(t, product, 100)
	_, err := env.ledger.Distribute(product.ID, rider.ID, 50, env.admin.ID.String(), env.admin.FullName)
	require.NoError(t, err)

	_, err = env.sales.RecordSale(rider.ID, &RecordSaleRequest{
		Lines:          []CartLine{{ProductID: product.ID.String(), Quantity: 5}},
		PaymentMethod:  "CASH",
		AmountTendered: 50,
	}, rider.ID.String(), rider.FullName)
	require.NoError(t, err)
	_, err = env.sales.RecordSale(rider.ID, &RecordSaleRequest{
		Lines:         []CartLine{{ProductID: product.ID.String(), Quantity: 3}},
		PaymentMethod: "QRIS",
	}, rider.ID.String(), rider.FullName)
	require.NoError(t, err)

	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)
	summary, err := env.reports.GetSalesSummary(start, end)
	require.NoError(t, err)

	assert.Equal(t, int64(2), summary.TransactionCount)
	assert.Equal(t, int64(80), summary.Revenue)
	assert.Equal(t, int64(50), summary.CashRevenue)
	assert.Equal(t, int64(30), summary.QRISRevenue)
	assert.Equal(t, int64(8), summary.UnitsSold)
}

func TestGetSalesByRider(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "SKU-001", "Mineral Water", 10)
	riderOne := env.createRider(t, "one@test.local", "Rider One")
	riderTwo := env.createRider(t, "two@test.local", "Rider Two")
	env.receive(t, product, 100)

	sales := []struct {
		rider *model.User
		qty   int
	}{
		{riderOne, 4},
		{riderTwo, 2},
	}
	for _, sale := range sales {
		_, err := env.ledger.Distribute(product.ID, sale.rider.ID, 10, env.admin.ID.String(), env.admin.FullName)
		require.NoError(t, err)
		_, err = env.sales.RecordSale(sale.rider.ID, &RecordSaleRequest{
			Lines:         []CartLine{{ProductID: product.ID.String(), Quantity: sale.qty}},
			PaymentMethod: "QRIS",
		}, sale.rider.ID.String(), sale.rider.FullName)
		require.NoError(t, err)
	}

	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)
	rows, err := env.reports.GetSalesByRider(start, end)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byName := make(map[string]int64)
	for _, row := range rows {
		byName[row.RiderName] = row.Revenue
	}
	assert.Equal(t, int64(40), byName["Rider One"])
	assert.Equal(t, int64(20), byName["Rider Two"])
}

func TestGetDashboardStats(t *testing.T) {
	env := newTestEnv(t)
	water := env.createProduct(t, "SKU-001", "Mineral Water", 10)
	env.createProduct(t, "SKU-002", "Iced Tea", 20)
	rider := env.createRider(t, "rider@test.local", "Rider One")
	env.receive(t, water, 100)
	// tea stays at zero, which counts as low stock.
	_, err := env.ledger.Distribute(water.ID, rider.ID, 30, env.admin.ID.String(), env.admin.FullName)
	require.NoError(t, err)
	_, err = env.sales.RecordSale(rider.ID, &RecordSaleRequest{
		Lines:         []CartLine{{ProductID: water.ID.String(), Quantity: 5}},
		PaymentMethod: "QRIS",
	}, rider.ID.String(), rider.FullName)
	require.NoError(t, err)

	stats, err := env.reports.GetDashboardStats()
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.LowStockCount)
	assert.Equal(t, int64(70), stats.WarehouseUnits)
	assert.Equal(t, int64(1), stats.SalesToday)
	assert.Equal(t, int64(50), stats.RevenueToday)
	assert.Equal(t, int64(1), stats.ActiveRiderStocks)
}

func TestGetStockMovement(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "SKU-001", "Mineral Water", 10)
	rider := env.createRider(t, "rider@test.local", "Rider One")
	env.receive(t, product, 100)
	_, err := env.ledger.Distribute(product.ID, rider.ID, 30, env.admin.ID.String(), env.admin.FullName)
	require.NoError(t, err)
	_, err = env.sales.RecordSale(rider.ID, &RecordSaleRequest{
		Lines:         []CartLine{{ProductID: product.ID.String(), Quantity: 5}},
		PaymentMethod: "QRIS",
	}, rider.ID.String(), rider.FullName)
	require.NoError(t, err)

	points, err := env.reports.GetStockMovement(7)
	require.NoError(t, err)
	require.Len(t, points, 1)

	today := time.Now().Format("2006-01-02")
	assert.Equal(t, today, points[0].Date)
	assert.Equal(t, 100, points[0].Received)
	assert.Equal(t, 30, points[0].Allocated)
	assert.Equal(t, 5, points[0].Sold)
}
