package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go-rider-pos/internal/handler"
	"go-rider-pos/internal/middleware"
	"go-rider-pos/internal/model"
	"go-rider-pos/internal/repository"
	"go-rider-pos/internal/service"
	"go-rider-pos/internal/ws"
	"go-rider-pos/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(
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
	)

	// 3. Seed default privileges, roles, and admin user
	seedPrivilegesRolesAndAdmin(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	categoryRepo := repository.NewCategoryRepo(db)
	productRepo := repository.NewProductRepo(db)
	stockRepo := repository.NewStockRepo(db)
	movementRepo := repository.NewMovementRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	ledgerService := service.NewLedgerService(stockRepo, movementRepo, productRepo, userRepo, db, wsHub)
	salesService := service.NewSalesService(ledgerService, txRepo, productRepo, userRepo, taxRateBps(), wsHub)
	catalogService := service.NewCatalogService(productRepo, categoryRepo, stockRepo, db, wsHub)
	reportService := service.NewReportService(txRepo, movementRepo)
	authService := service.NewAuthService(userRepo, wsHub)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)

	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	salesHandler := handler.NewSalesHandler(salesService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	reportHandler := handler.NewReportHandler(reportService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Rider POS v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Dashboard and reports (admin)
	protected.Get("/dashboard/stats", middleware.RequirePrivilege("report:view"), reportHandler.GetDashboardStats)
	protected.Get("/reports/sales", middleware.RequirePrivilege("report:view"), reportHandler.GetSalesSummary)
	protected.Get("/reports/riders", middleware.RequirePrivilege("report:view"), reportHandler.GetSalesByRider)
	protected.Get("/reports/stock-movement", middleware.RequirePrivilege("report:view"), reportHandler.GetStockMovement)

	// Catalog
	protected.Get("/categories", catalogHandler.GetCategories)
	protected.Post("/categories", middleware.RequirePrivilege("category:manage"), catalogHandler.CreateCategory)
	protected.Put("/categories/:id", middleware.RequirePrivilege("category:manage"), catalogHandler.UpdateCategory)
	protected.Delete("/categories/:id", middleware.RequirePrivilege("category:manage"), catalogHandler.DeleteCategory)

	protected.Get("/products", catalogHandler.GetProducts)
	protected.Post("/products", middleware.RequirePrivilege("product:create"), catalogHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequirePrivilege("product:update"), catalogHandler.UpdateProduct)

	// Warehouse and distribution (admin)
	protected.Post("/warehouse/receipts", middleware.RequirePrivilege("warehouse:receive"), ledgerHandler.Receive)
	protected.Get("/warehouse/stocks", middleware.RequireRole(model.RoleAdmin), ledgerHandler.GetWarehouseStock)
	protected.Post("/distributions", middleware.RequirePrivilege("distribution:create"), ledgerHandler.Distribute)
	protected.Get("/movements", middleware.RequireRole(model.RoleAdmin), ledgerHandler.GetMovements)
	protected.Get("/movements/mine", middleware.RequirePrivilege("stock:view"), ledgerHandler.GetMyMovements)

	// Rider stock
	protected.Get("/riders", middleware.RequireRole(model.RoleAdmin), userHandler.GetRiders)
	protected.Get("/riders/stocks", middleware.RequireRole(model.RoleAdmin), ledgerHandler.GetAllRiderStocks)
	protected.Get("/riders/:id/stocks", middleware.RequirePrivilege("stock:view"), ledgerHandler.GetRiderStock)
	protected.Get("/stocks/mine", middleware.RequirePrivilege("stock:view"), ledgerHandler.GetMyStock)

	// Sales
	protected.Post("/sales", middleware.RequireRole(model.RoleRider), middleware.RequirePrivilege("sale:create"), salesHandler.RecordSale)
	protected.Get("/sales", middleware.RequirePrivilege("sale:view"), salesHandler.GetTransactions)
	protected.Get("/sales/:id", middleware.RequirePrivilege("sale:view"), salesHandler.GetTransaction)

	// User management (admin)
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)

	// Roles and privileges
	protected.Get("/roles", roleHandler.GetRoles)
	protected.Get("/privileges", func(c *fiber.Ctx) error {
		privileges, err := privilegeRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch privileges"})
		}
		return c.JSON(privileges)
	})

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// taxRateBps reads the configured tax rate in basis points (1100 = 11%).
// Zero (the default) disables tax.
func taxRateBps() int {
	raw := os.Getenv("TAX_RATE_BPS")
	if raw == "" {
		return 0
	}
	bps, err := strconv.Atoi(raw)
	if err != nil || bps < 0 {
		log.Printf("Warning: invalid TAX_RATE_BPS %q, using 0", raw)
		return 0
	}
	return bps
}

// seedPrivilegesRolesAndAdmin creates default privileges, roles, and the
// admin user if they don't exist
func seedPrivilegesRolesAndAdmin(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}

	// 2. Seed roles
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	// 3. Assign privileges to roles
	allPrivileges, _ := privilegeRepo.FindAll()

	// ADMIN gets ALL privileges
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err == nil && len(adminRole.Privileges) == 0 {
		db.Model(adminRole).Association("Privileges").Replace(allPrivileges)
		log.Println("ADMIN role assigned all privileges")
	}

	// RIDER gets the mobile sales subset
	riderRole, err := roleRepo.FindByCode(model.RoleRider)
	if err == nil && len(riderRole.Privileges) == 0 {
		riderPrivileges, err := privilegeRepo.FindByCodes(model.RiderPrivilegeCodes)
		if err == nil {
			db.Model(riderRole).Association("Privileges").Replace(riderPrivileges)
			log.Println("RIDER role assigned sales privileges")
		}
	}

	// 4. Create default admin user
	_, err = userRepo.FindByEmail("admin@example.com")
	if err != nil {
		adminRole, _ := roleRepo.FindByCode(model.RoleAdmin)

		admin := &model.User{
			Email:       "admin@example.com",
			FullName:    "Administrator",
			PhoneNumber: "",
			RoleID:      &adminRole.ID,
			IsActive:    true,
			Privileges:  adminRole.Privileges,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("admin123"); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}

		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Println("Admin user created: admin@example.com / admin123 (ADMIN)")
		}
	}
}
