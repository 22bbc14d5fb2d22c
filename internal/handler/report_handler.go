package handler

import (
	"strconv"
	"time"

	"go-rider-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// parseRange resolves the ?range= query into a start date. Supported values
// mirror the front-end picker: 7d, 1m, 3m, 6m, 12m.
func parseRange(rangeParam string) time.Time {
	now := time.Now()
	switch rangeParam {
	case "1m":
		return now.AddDate(0, -1, 0)
	case "3m":
		return now.AddDate(0, -3, 0)
	case "6m":
		return now.AddDate(0, -6, 0)
	case "12m":
		return now.AddDate(0, -12, 0)
	default: // "7d" and anything unrecognised
		return now.AddDate(0, 0, -7)
	}
}

// GetDashboardStats returns overview statistics
// GET /api/v1/dashboard/stats
func (h *ReportHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}
	return c.JSON(stats)
}

// GetSalesSummary aggregates the sales log over a range
// GET /api/v1/reports/sales?range=7d
func (h *ReportHandler) GetSalesSummary(c *fiber.Ctx) error {
	startDate := parseRange(c.Query("range", "7d"))

	summary, err := h.service.GetSalesSummary(startDate, time.Now())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch sales summary"})
	}
	return c.JSON(summary)
}

// GetSalesByRider returns the per-rider breakdown
// GET /api/v1/reports/riders?range=7d
func (h *ReportHandler) GetSalesByRider(c *fiber.Ctx) error {
	startDate := parseRange(c.Query("range", "7d"))

	data, err := h.service.GetSalesByRider(startDate, time.Now())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch rider sales"})
	}
	return c.JSON(data)
}

// GetStockMovement returns per-day received/allocated/sold data for charts
// GET /api/v1/reports/stock-movement?days=7
func (h *ReportHandler) GetStockMovement(c *fiber.Ctx) error {
	daysStr := c.Query("days", "7")
	days, err := strconv.Atoi(daysStr)
	if err != nil || days <= 0 {
		days = 7
	}

	data, err := h.service.GetStockMovement(days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stock movement"})
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}
