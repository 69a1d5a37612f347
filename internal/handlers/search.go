package handlers

import (
	"github.com/alsetso/alsetmaps-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type SearchHandler struct {
	service *services.SearchService
}

func NewSearchHandler(service *services.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

func SetupSearchRoutes(router fiber.Router, service *services.SearchService) {
	h := NewSearchHandler(service)

	router.Post("/", h.SmartSearch)
}

// SmartSearch godoc
// @Summary Run a credit-gated smart search
// @Description Debits the search cost, geocodes the address and returns the enriched property payload
// @Tags search
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.SmartSearchRequest true "Search parameters"
// @Success 200 {object} services.SmartSearchResponse
// @Failure 402 {object} ErrorResponse
// @Router /search [post]
func (h *SearchHandler) SmartSearch(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req services.SmartSearchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	resp, err := h.service.SmartSearch(c.UserContext(), userID, &req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(resp)
}
