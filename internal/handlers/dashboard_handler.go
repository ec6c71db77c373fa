package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"inventory/internal/services"
)

// DashboardHandler handles HTTP requests for the dashboard counters.
type DashboardHandler struct {
	service *services.InventoryService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(service *services.InventoryService) *DashboardHandler {
	return &DashboardHandler{
		service: service,
	}
}

// RegisterRoutes registers the dashboard routes with the Fiber app.
func (h *DashboardHandler) RegisterRoutes(router fiber.Router) {
	dashboardRoutes := router.Group("/dashboard")
	dashboardRoutes.Get("/stats", h.HandleGetStats)
}

// HandleGetStats returns the collection-wide counters.
func (h *DashboardHandler) HandleGetStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats()
	if err != nil {
		log.Printf("Error computing dashboard stats: %v", err)
		return respondError(c, err)
	}
	return c.JSON(stats)
}
