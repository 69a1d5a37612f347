package handlers

import (
	"strconv"

	"github.com/alsetso/alsetmaps-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AgentHandler struct {
	service *services.AgentService
}

func NewAgentHandler(service *services.AgentService) *AgentHandler {
	return &AgentHandler{service: service}
}

func SetupAgentRoutes(router fiber.Router, optionalAuth, staffRequired fiber.Handler, service *services.AgentService) {
	h := NewAgentHandler(service)

	router.Get("/", h.List)
	router.Get("/:id", h.Get)
	router.Post("/onboard", optionalAuth, h.Onboard)
	router.Patch("/:id/status", staffRequired, h.UpdateStatus)
}

// List godoc
// @Summary List directory agents
// @Tags agents
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param state query string false "Filter by license state"
// @Param q query string false "Search name, brokerage or service areas"
// @Success 200 {object} services.AgentListResponse
// @Router /agents [get]
func (h *AgentHandler) List(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	filter := services.AgentFilter{
		Page:         page,
		Limit:        limit,
		LicenseState: c.Query("state"),
		Query:        c.Query("q"),
	}

	response, err := h.service.List(c.UserContext(), &filter)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(response)
}

// Get godoc
// @Summary Get an agent by ID
// @Tags agents
// @Produce json
// @Param id path int true "Agent ID"
// @Success 200 {object} models.Agent
// @Router /agents/{id} [get]
func (h *AgentHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid agent ID"})
	}

	agent, err := h.service.GetByID(c.UserContext(), uint(id))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(agent)
}

// Onboard godoc
// @Summary Submit an agent onboarding application
// @Tags agents
// @Accept json
// @Produce json
// @Param request body services.OnboardAgentRequest true "Agent details"
// @Success 201 {object} models.Agent
// @Router /agents/onboard [post]
func (h *AgentHandler) Onboard(c *fiber.Ctx) error {
	var req services.OnboardAgentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	// Link the application to the account when the caller is signed in
	var userID *uint
	if id, ok := c.Locals("userID").(uint); ok {
		userID = &id
	}

	agent, err := h.service.Onboard(c.UserContext(), userID, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(agent)
}

type UpdateAgentStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus godoc
// @Summary Approve or reject an agent application
// @Tags agents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Agent ID"
// @Param request body UpdateAgentStatusRequest true "New status"
// @Success 200 {object} models.Agent
// @Router /agents/{id}/status [patch]
func (h *AgentHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid agent ID"})
	}

	var req UpdateAgentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	agent, err := h.service.UpdateStatus(c.UserContext(), uint(id), req.Status)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(agent)
}
