package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/college-hub/database"
	"github.com/sahilchouksey/college-hub/utils/cache"
	"github.com/sahilchouksey/college-hub/utils/logger"
	"github.com/sahilchouksey/college-hub/utils/response"
)

const llmStatusKey = "college-hub:llm-status"

// Pinger is the model liveness probe.
type Pinger interface {
	Ping(ctx context.Context) bool
}

// HealthHandler serves the storage and model status endpoints.
type HealthHandler struct {
	store database.Storage
	model Pinger
	cache *cache.RedisCache
	ttl   time.Duration
	log   *logger.Logger
}

// NewHealthHandler creates a health handler. statusCache may be nil, in
// which case every status request probes the model.
func NewHealthHandler(store database.Storage, model Pinger, statusCache *cache.RedisCache, ttl time.Duration, log *logger.Logger) *HealthHandler {
	return &HealthHandler{store: store, model: model, cache: statusCache, ttl: ttl, log: log}
}

// Ping handles GET /ping
func (h *HealthHandler) Ping(c *fiber.Ctx) error {
	if err := h.store.HealthCheck(); err != nil {
		h.log.Warn("storage health check failed", "error", err)
		return response.ServiceUnavailable(c, "Database is not reachable")
	}
	return response.Success(c, fiber.Map{"status": "ok"})
}

// LLMStatus handles GET /api/llm-status
func (h *HealthHandler) LLMStatus(c *fiber.Ctx) error {
	ctx := c.UserContext()

	if h.cache != nil {
		if available, err := h.cache.GetBool(ctx, llmStatusKey); err == nil {
			return c.JSON(fiber.Map{"available": available})
		}
	}

	available := h.model.Ping(ctx)

	if h.cache != nil {
		if err := h.cache.SetBool(ctx, llmStatusKey, available, h.ttl); err != nil {
			h.log.Warn("failed to cache model status", "error", err)
		}
	}
	return c.JSON(fiber.Map{"available": available})
}
