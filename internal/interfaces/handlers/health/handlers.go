package health

import (
	"masonry-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Handlers reports liveness and store reachability.
type Handlers struct {
	DB *gorm.DB
}

// Health GET /api/v1/health
func (h *Handlers) Health(c *fiber.Ctx) error {
	dbStatus := "ok"
	if h.DB != nil {
		if sqlDB, err := h.DB.DB(); err != nil || sqlDB.Ping() != nil {
			dbStatus = "unreachable"
		}
	}
	return response.Success(c, "Service healthy", fiber.Map{"database": dbStatus}, nil)
}
