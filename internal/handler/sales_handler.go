package handler

import (
	"go-rider-pos/internal/model"
	"go-rider-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SalesHandler struct {
	service service.SalesService
}

func NewSalesHandler(s service.SalesService) *SalesHandler {
	return &SalesHandler{service: s}
}

// RecordSale records a sale against the authenticated rider's stock
// POST /api/v1/sales
func (h *SalesHandler) RecordSale(c *fiber.Ctx) error {
	var req service.RecordSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	riderID, err := parseUUID(getUserID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	transaction, err := h.service.RecordSale(riderID, &req, getUserID(c), getUserName(c))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Sale recorded", "data": transaction})
}

// GetTransactions lists sales. Admins see everything, riders only their own.
// GET /api/v1/sales
func (h *SalesHandler) GetTransactions(c *fiber.Ctx) error {
	var (
		transactions []model.Transaction
		err          error
	)

	if getUserRole(c) == "ADMIN" {
		transactions, err = h.service.GetAllTransactions()
	} else {
		riderID, parseErr := parseUUID(getUserID(c))
		if parseErr != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
		}
		transactions, err = h.service.GetTransactionsByRider(riderID)
	}

	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(transactions)
}

// GetTransaction returns one sale by ID
// GET /api/v1/sales/:id
func (h *SalesHandler) GetTransaction(c *fiber.Ctx) error {
	txID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	transaction, err := h.service.GetTransactionByID(txID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Transaction not found"})
	}

	// Riders may only read their own records.
	if getUserRole(c) != "ADMIN" && transaction.RiderID.String() != getUserID(c) {
		return c.Status(403).JSON(fiber.Map{"error": "Forbidden"})
	}

	return c.JSON(transaction)
}
