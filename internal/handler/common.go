package handler

import (
	"errors"

	"go-rider-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Helpers to pull user info from the JWT context (set by auth middleware).
func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system" // shouldn't happen on protected routes
	}
	return userID.(string)
}

func getUserName(c *fiber.Ctx) string {
	userName := c.Locals("user_name")
	if userName == nil {
		return "Unknown"
	}
	return userName.(string)
}

func getUserRole(c *fiber.Ctx) string {
	role := c.Locals("user_role")
	if role == nil {
		return ""
	}
	return role.(string)
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// errorCode maps ledger and recorder failures to machine-readable codes the
// UI localizes. Messages stay English server-side.
func errorCode(err error) string {
	switch {
	case errors.Is(err, service.ErrInsufficientWarehouseStock):
		return "INSUFFICIENT_WAREHOUSE_STOCK"
	case errors.Is(err, service.ErrInsufficientRiderStock):
		return "INSUFFICIENT_RIDER_STOCK"
	case errors.Is(err, service.ErrInsufficientStock):
		return "INSUFFICIENT_STOCK"
	case errors.Is(err, service.ErrInsufficientPayment):
		return "INSUFFICIENT_PAYMENT"
	case errors.Is(err, service.ErrInvalidQuantity):
		return "INVALID_QUANTITY"
	case errors.Is(err, service.ErrEmptyCart):
		return "EMPTY_CART"
	case errors.Is(err, service.ErrUnknownPaymentMethod):
		return "UNKNOWN_PAYMENT_METHOD"
	case errors.Is(err, service.ErrNotARider):
		return "NOT_A_RIDER"
	case errors.Is(err, service.ErrProductNotFound):
		return "PRODUCT_NOT_FOUND"
	case errors.Is(err, service.ErrRiderNotFound):
		return "RIDER_NOT_FOUND"
	case errors.Is(err, service.ErrCategoryNotFound):
		return "CATEGORY_NOT_FOUND"
	case errors.Is(err, service.ErrSKUExists):
		return "SKU_EXISTS"
	case errors.Is(err, service.ErrCategoryExists):
		return "CATEGORY_EXISTS"
	case errors.Is(err, service.ErrCategoryInUse):
		return "CATEGORY_IN_USE"
	default:
		return "BAD_REQUEST"
	}
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInsufficientWarehouseStock),
		errors.Is(err, service.ErrInsufficientRiderStock),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrInsufficientPayment):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrRiderNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrSKUExists),
		errors.Is(err, service.ErrCategoryExists),
		errors.Is(err, service.ErrCategoryInUse):
		return fiber.StatusConflict
	default:
		return fiber.StatusBadRequest
	}
}

// fail renders a service error in the shape the POS front-ends expect.
func fail(c *fiber.Ctx, err error) error {
	return c.Status(errorStatus(err)).JSON(fiber.Map{
		"error": err.Error(),
		"code":  errorCode(err),
	})
}
