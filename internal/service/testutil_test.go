package service

import (
	"testing"

	"go-rider-pos/internal/model"
	"go-rider-pos/internal/repository"
	"go-rider-pos/internal/ws"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires the full service stack against an in-memory sqlite database,
// substituting the production Postgres store behind the same repositories.
type testEnv struct {
	db      *gorm.DB
	ledger  LedgerService
	sales   SalesService
	catalog CatalogService
	reports ReportService
	users   UserService
	auth    AuthService

	userRepo     repository.UserRepository
	txRepo       repository.TransactionRepository
	movementRepo repository.MovementRepository

	adminRole *model.Role
	riderRole *model.Role
	admin     *model.User
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithTax(t, 0)
}

func newTestEnvWithTax(t *testing.T, taxRateBps int) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// One connection keeps the in-memory database alive for the whole test.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.WarehouseStock{},
		&model.RiderStock{},
		&model.StockMovement{},
		&model.Transaction{},
		&model.TransactionItem{},
		&model.User{},
		&model.Privilege{},
		&model.Role{},
	))

	categoryRepo := repository.NewCategoryRepo(db)
	productRepo := repository.NewProductRepo(db)
	stockRepo := repository.NewStockRepo(db)
	movementRepo := repository.NewMovementRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	require.NoError(t, privilegeRepo.SeedDefaults())
	require.NoError(t, roleRepo.SeedDefaults())

	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	require.NoError(t, err)
	riderRole, err := roleRepo.FindByCode(model.RoleRider)
	require.NoError(t, err)

	allPrivileges, err := privilegeRepo.FindAll()
	require.NoError(t, err)
	require.NoError(t, db.Model(adminRole).Association("Privileges").Replace(allPrivileges))
	riderPrivileges, err := privilegeRepo.FindByCodes(model.RiderPrivilegeCodes)
	require.NoError(t, err)
	require.NoError(t, db.Model(riderRole).Association("Privileges").Replace(riderPrivileges))

	// Reload so role.Privileges reflects the links just written.
	adminRole, err = roleRepo.FindByCode(model.RoleAdmin)
	require.NoError(t, err)
	riderRole, err = roleRepo.FindByCode(model.RoleRider)
	require.NoError(t, err)

	hub := ws.NewHub()
	go hub.Run()

	ledger := NewLedgerService(stockRepo, movementRepo, productRepo, userRepo, db, hub)

	env := &testEnv{
		db:           db,
		ledger:       ledger,
		sales:        NewSalesService(ledger, txRepo, productRepo, userRepo, taxRateBps, hub),
		catalog:      NewCatalogService(productRepo, categoryRepo, stockRepo, db, hub),
		reports:      NewReportService(txRepo, movementRepo),
		users:        NewUserService(userRepo, privilegeRepo, roleRepo),
		auth:         NewAuthService(userRepo, hub),
		userRepo:     userRepo,
		txRepo:       txRepo,
		movementRepo: movementRepo,
		adminRole:    adminRole,
		riderRole:    riderRole,
	}
	env.admin = env.createUser(t, "admin@test.local", "Administrator", adminRole)
	return env
}

func (e *testEnv) createUser(t *testing.T, email, name string, role *model.Role) *model.User {
	t.Helper()

	user := &model.User{
		Email:      email,
		FullName:   name,
		RoleID:     &role.ID,
		IsActive:   true,
		Privileges: role.Privileges,
	}
	require.NoError(t, user.SetPassword("secret123"))
	require.NoError(t, e.userRepo.Create(user))
	return user
}

func (e *testEnv) createRider(t *testing.T, email, name string) *model.User {
	t.Helper()
	return e.createUser(t, email, name, e.riderRole)
}

func (e *testEnv) createProduct(t *testing.T, sku, name string, price int64) *model.Product {
	t.Helper()

	category := &model.Category{Name: "Beverages " + sku}
	require.NoError(t, e.catalog.CreateCategory(category, e.admin.ID.String()))

	product := &model.Product{
		SKU:        sku,
		Name:       name,
		CategoryID: category.ID,
		Unit:       "pcs",
		Price:      price,
	}
	require.NoError(t, e.catalog.CreateProduct(product, e.admin.ID.String(), e.admin.FullName))
	return product
}

// receive books warehouse stock for a product, failing the test on error.
func (e *testEnv) receive(t *testing.T, product *model.Product, qty int) {
	t.Helper()
	_, err := e.ledger.ReceiveWarehouseStock(product.ID, qty, "test receipt", e.admin.ID.String(), e.admin.FullName)
	require.NoError(t, err)
}
