package handler

import (
	"strconv"

	"go-rider-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type LedgerHandler struct {
	ledger service.LedgerService
}

func NewLedgerHandler(ledger service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// DistributeRequest is the admin's warehouse -> rider allocation.
type DistributeRequest struct {
	ProductID string `json:"product_id"`
	RiderID   string `json:"rider_id"`
	Quantity  int    `json:"quantity"`
}

// ReceiveRequest books new stock into the warehouse pool.
type ReceiveRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Note      string `json:"note"`
}

// Distribute handles stock allocation to a rider
// POST /api/v1/distributions
func (h *LedgerHandler) Distribute(c *fiber.Ctx) error {
	var req DistributeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	productID, err := parseUUID(req.ProductID)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	riderID, err := parseUUID(req.RiderID)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid rider ID"})
	}

	movement, err := h.ledger.Distribute(productID, riderID, req.Quantity, getUserID(c), getUserName(c))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Stock distributed", "data": movement})
}

// Receive handles warehouse stock intake
// POST /api/v1/warehouse/receipts
func (h *LedgerHandler) Receive(c *fiber.Ctx) error {
	var req ReceiveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	productID, err := parseUUID(req.ProductID)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	movement, err := h.ledger.ReceiveWarehouseStock(productID, req.Quantity, req.Note, getUserID(c), getUserName(c))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Warehouse stock received", "data": movement})
}

// GetWarehouseStock returns the full warehouse snapshot
// GET /api/v1/warehouse/stocks
func (h *LedgerHandler) GetWarehouseStock(c *fiber.Ctx) error {
	stocks, err := h.ledger.ListWarehouse()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(stocks)
}

// GetRiderStock returns one rider's allocated stock. Riders may only read
// their own rows; admins may read anyone's.
// GET /api/v1/riders/:id/stocks
func (h *LedgerHandler) GetRiderStock(c *fiber.Ctx) error {
	riderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid rider ID"})
	}

	if getUserRole(c) != "ADMIN" && c.Params("id") != getUserID(c) {
		return c.Status(403).JSON(fiber.Map{"error": "Riders can only view their own stock"})
	}

	stocks, err := h.ledger.ListRiderStock(riderID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(stocks)
}

// GetMyStock returns the authenticated rider's stock
// GET /api/v1/stocks/mine
func (h *LedgerHandler) GetMyStock(c *fiber.Ctx) error {
	riderID, err := parseUUID(getUserID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	stocks, err := h.ledger.ListRiderStock(riderID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(stocks)
}

// GetAllRiderStocks returns every rider's allocated stock for the admin
// overview screen
// GET /api/v1/riders/stocks
func (h *LedgerHandler) GetAllRiderStocks(c *fiber.Ctx) error {
	stocks, err := h.ledger.ListAllRiderStock()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(stocks)
}

// GetMyMovements returns the authenticated rider's allocation history
// GET /api/v1/movements/mine
func (h *LedgerHandler) GetMyMovements(c *fiber.Ctx) error {
	riderID, err := parseUUID(getUserID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	movements, err := h.ledger.ListRiderMovements(riderID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(movements)
}

// GetMovements returns the append-only movement log, newest first
// GET /api/v1/movements?limit=50
func (h *LedgerHandler) GetMovements(c *fiber.Ctx) error {
	limitStr := c.Query("limit", "50")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 50
	}

	movements, err := h.ledger.ListMovements(limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(movements)
}
