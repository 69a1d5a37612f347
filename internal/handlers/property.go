package handlers

import (
	"strconv"

	"github.com/alsetso/alsetmaps-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type PropertyHandler struct {
	cache *services.PropertyCacheService
	stats *services.StatsService
}

func NewPropertyHandler(cache *services.PropertyCacheService, stats *services.StatsService) *PropertyHandler {
	return &PropertyHandler{cache: cache, stats: stats}
}

func SetupPropertyRoutes(router fiber.Router, authRequired fiber.Handler, cache *services.PropertyCacheService, stats *services.StatsService) {
	h := NewPropertyHandler(cache, stats)

	router.Get("/lookup", authRequired, h.Lookup)
	router.Get("/stats/most-searched", h.MostSearched)
	router.Get("/stats/recently-refreshed", h.RecentlyRefreshed)
	router.Get("/stats/export", authRequired, h.ExportStats)
}

// Lookup godoc
// @Summary Look up cached property data for an address
// @Tags properties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param address query string true "Free-text address"
// @Param lat query number false "Latitude (used only when the record is created)"
// @Param lng query number false "Longitude (used only when the record is created)"
// @Param force query bool false "Bypass the freshness window"
// @Success 200 {object} map[string]interface{}
// @Router /properties/lookup [get]
func (h *PropertyHandler) Lookup(c *fiber.Ctx) error {
	address := c.Query("address")
	force := c.Query("force") == "true"

	var coords *services.Coordinates
	lat, latErr := strconv.ParseFloat(c.Query("lat", ""), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng", ""), 64)
	if latErr == nil && lngErr == nil {
		coords = &services.Coordinates{Lat: lat, Lng: lng}
	}

	result, err := h.cache.Lookup(c.UserContext(), address, coords, force)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"record":        result.Record,
		"property_data": result.Payload,
		"was_cache_hit": result.WasCacheHit,
	})
}

// MostSearched godoc
// @Summary List the most-searched properties
// @Tags properties
// @Produce json
// @Param limit query int false "Max rows"
// @Success 200 {array} services.PropertyStatsRow
// @Router /properties/stats/most-searched [get]
func (h *PropertyHandler) MostSearched(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	rows, err := h.stats.MostSearched(c.UserContext(), limit)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(rows)
}

// RecentlyRefreshed godoc
// @Summary List properties with the newest provider data
// @Tags properties
// @Produce json
// @Param limit query int false "Max rows"
// @Success 200 {array} services.PropertyStatsRow
// @Router /properties/stats/recently-refreshed [get]
func (h *PropertyHandler) RecentlyRefreshed(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	rows, err := h.stats.RecentlyRefreshed(c.UserContext(), limit)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(rows)
}

// ExportStats godoc
// @Summary Download property activity stats as CSV
// @Tags properties
// @Produce text/csv
// @Security BearerAuth
// @Param limit query int false "Max rows"
// @Success 200 {string} string
// @Router /properties/stats/export [get]
func (h *PropertyHandler) ExportStats(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "100"))

	data, err := h.stats.ExportCSV(c.UserContext(), limit)
	if err != nil {
		return serviceError(c, err)
	}

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", `attachment; filename="property-stats.csv"`)
	return c.Send(data)
}
