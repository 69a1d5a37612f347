package handlers

import (
	"strconv"

	"github.com/alsetso/alsetmaps-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type PinHandler struct {
	service *services.PinService
}

func NewPinHandler(service *services.PinService) *PinHandler {
	return &PinHandler{service: service}
}

func SetupPinRoutes(router fiber.Router, service *services.PinService) {
	h := NewPinHandler(service)

	router.Get("/", h.List)
	router.Post("/", h.Create)
	router.Get("/:id", h.Get)
	router.Delete("/:id", h.Delete)
}

// List godoc
// @Summary List the current user's pins
// @Tags pins
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Pin
// @Router /pins [get]
func (h *PinHandler) List(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	pins, err := h.service.List(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(pins)
}

// Create godoc
// @Summary Drop a pin on a property
// @Tags pins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.CreatePinRequest true "Pin data"
// @Success 201 {object} models.Pin
// @Router /pins [post]
func (h *PinHandler) Create(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req services.CreatePinRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	pin, err := h.service.Create(c.UserContext(), userID, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(pin)
}

// Get godoc
// @Summary Get one of the current user's pins
// @Tags pins
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pin ID"
// @Success 200 {object} models.Pin
// @Router /pins/{id} [get]
func (h *PinHandler) Get(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid pin ID"})
	}

	pin, err := h.service.Get(c.UserContext(), userID, uint(id))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(pin)
}

// Delete godoc
// @Summary Remove one of the current user's pins
// @Tags pins
// @Security BearerAuth
// @Param id path int true "Pin ID"
// @Success 204
// @Router /pins/{id} [delete]
func (h *PinHandler) Delete(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid pin ID"})
	}

	if err := h.service.Delete(c.UserContext(), userID, uint(id)); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
