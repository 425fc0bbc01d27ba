package notifications

import (
	"masonry-backend/internal/application/notifications"
	"masonry-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers exposes the per-worker notification queue.
type Handlers struct {
	Service *notifications.Service
}

// Next GET /api/v1/workers/:workerID/notifications
//
// Pops the next queued notification; data is null when the queue is empty.
func (h *Handlers) Next(c *fiber.Ctx) error {
	workerID, err := c.ParamsInt("workerID")
	if err != nil || workerID < 1 {
		return response.Error(c, "invalid workerID", fiber.StatusBadRequest, nil)
	}
	n, err := h.Service.Pop(c.Context(), uint(workerID))
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Notification fetched", n, nil)
}
