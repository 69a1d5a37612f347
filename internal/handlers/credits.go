package handlers

import (
	"strconv"

	"github.com/alsetso/alsetmaps-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type CreditHandler struct {
	service *services.CreditService
}

func NewCreditHandler(service *services.CreditService) *CreditHandler {
	return &CreditHandler{service: service}
}

func SetupCreditRoutes(router fiber.Router, service *services.CreditService) {
	h := NewCreditHandler(service)

	router.Get("/balance", h.Balance)
	router.Get("/history", h.History)
	router.Post("/add", h.Add)
}

// Balance godoc
// @Summary Get the current user's credit balance
// @Tags credits
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]int64
// @Router /credits/balance [get]
func (h *CreditHandler) Balance(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	balance, err := h.service.Balance(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"balance": balance})
}

// History godoc
// @Summary List the current user's credit transactions
// @Tags credits
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max entries"
// @Success 200 {array} models.CreditTransaction
// @Router /credits/history [get]
func (h *CreditHandler) History(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	limit, _ := strconv.Atoi(c.Query("limit", "50"))

	history, err := h.service.History(c.UserContext(), userID, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(history)
}

type AddCreditsRequest struct {
	Amount    int64  `json:"amount"`
	Reference string `json:"reference,omitempty"`
}

// Add godoc
// @Summary Credit the current user's balance
// @Description Called after a completed purchase; payment processing itself happens upstream
// @Tags credits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddCreditsRequest true "Credit amount"
// @Success 200 {object} models.CreditAccount
// @Router /credits/add [post]
func (h *CreditHandler) Add(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req AddCreditsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	account, err := h.service.Add(c.UserContext(), userID, req.Amount, req.Reference)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(account)
}
