package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/college-hub/database"
	"github.com/sahilchouksey/college-hub/handlers"
	"github.com/sahilchouksey/college-hub/utils/logger"
)

type DashboardHandler struct {
	store database.Storage
	log   *logger.Logger
}

func NewDashboardHandler(store database.Storage, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{store: store, log: log}
}

// Page handles GET /
func (h *DashboardHandler) Page(c *fiber.Ctx) error {
	stats, err := h.store.DashboardStats(c.UserContext())
	if err != nil {
		return handlers.RespondError(c, h.log, err, "Failed to load dashboard")
	}

	return c.Render("dashboard", fiber.Map{
		"Active": "dashboard",
		"Stats":  stats,
	}, "layouts/main")
}
