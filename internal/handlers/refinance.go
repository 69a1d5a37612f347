package handlers

import (
	"strconv"

	"github.com/alsetso/alsetmaps-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type RefinanceHandler struct {
	service *services.RefinanceService
}

func NewRefinanceHandler(service *services.RefinanceService) *RefinanceHandler {
	return &RefinanceHandler{service: service}
}

func SetupRefinanceRoutes(router fiber.Router, optionalAuth, staffRequired fiber.Handler, service *services.RefinanceService) {
	h := NewRefinanceHandler(service)

	router.Post("/", optionalAuth, h.Create)
	router.Get("/", staffRequired, h.List)
	router.Patch("/:id/status", staffRequired, h.UpdateStatus)
}

// Create godoc
// @Summary Submit a refinance request
// @Tags refinance
// @Accept json
// @Produce json
// @Param request body services.CreateRefinanceRequest true "Refinance details"
// @Success 201 {object} models.RefinanceRequest
// @Router /refinance [post]
func (h *RefinanceHandler) Create(c *fiber.Ctx) error {
	var req services.CreateRefinanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	var userID *uint
	if id, ok := c.Locals("userID").(uint); ok {
		userID = &id
	}

	lead, err := h.service.Create(c.UserContext(), userID, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(lead)
}

// List godoc
// @Summary List refinance leads
// @Tags refinance
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Success 200 {array} models.RefinanceRequest
// @Router /refinance [get]
func (h *RefinanceHandler) List(c *fiber.Ctx) error {
	leads, err := h.service.List(c.UserContext(), c.Query("status"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(leads)
}

type UpdateRefinanceStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus godoc
// @Summary Update a refinance lead's status
// @Tags refinance
// @Accept json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param request body UpdateRefinanceStatusRequest true "New status"
// @Success 204
// @Router /refinance/{id}/status [patch]
func (h *RefinanceHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	var req UpdateRefinanceStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.service.UpdateStatus(c.UserContext(), uint(id), req.Status); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
