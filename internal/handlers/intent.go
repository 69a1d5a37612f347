package handlers

import (
	"strconv"

	"github.com/alsetso/alsetmaps-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type IntentHandler struct {
	service *services.IntentService
}

func NewIntentHandler(service *services.IntentService) *IntentHandler {
	return &IntentHandler{service: service}
}

func SetupIntentRoutes(router fiber.Router, authRequired fiber.Handler, service *services.IntentService) {
	h := NewIntentHandler(service)

	router.Get("/", h.List)
	router.Get("/mine", authRequired, h.ListMine)
	router.Post("/", authRequired, h.Create)
	router.Post("/:id/withdraw", authRequired, h.Withdraw)
	router.Delete("/:id", authRequired, h.Delete)
}

// List godoc
// @Summary List active buyer intents
// @Tags intents
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param location query string false "Filter by location"
// @Param max_price query int false "Filter by max price"
// @Success 200 {object} services.IntentListResponse
// @Router /intents [get]
func (h *IntentHandler) List(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	maxPrice, _ := strconv.ParseInt(c.Query("max_price", "0"), 10, 64)

	filter := services.IntentFilter{
		Page:     page,
		Limit:    limit,
		Location: c.Query("location"),
		MaxPrice: maxPrice,
	}

	response, err := h.service.List(c.UserContext(), &filter)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(response)
}

// ListMine godoc
// @Summary List the current user's buyer intents
// @Tags intents
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.BuyerIntent
// @Router /intents/mine [get]
func (h *IntentHandler) ListMine(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	intents, err := h.service.ListMine(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(intents)
}

// Create godoc
// @Summary Post a buyer intent
// @Tags intents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.CreateIntentRequest true "Intent details"
// @Success 201 {object} models.BuyerIntent
// @Router /intents [post]
func (h *IntentHandler) Create(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req services.CreateIntentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	intent, err := h.service.Create(c.UserContext(), userID, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(intent)
}

// Withdraw godoc
// @Summary Withdraw one of the current user's intents
// @Tags intents
// @Security BearerAuth
// @Param id path int true "Intent ID"
// @Success 204
// @Router /intents/{id}/withdraw [post]
func (h *IntentHandler) Withdraw(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid intent ID"})
	}

	if err := h.service.Withdraw(c.UserContext(), userID, uint(id)); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary Delete one of the current user's intents
// @Tags intents
// @Security BearerAuth
// @Param id path int true "Intent ID"
// @Success 204
// @Router /intents/{id} [delete]
func (h *IntentHandler) Delete(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid intent ID"})
	}

	if err := h.service.Delete(c.UserContext(), userID, uint(id)); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
