package uploads

import (
	"masonry-backend/internal/application/masonry"
	"masonry-backend/internal/application/notifications"
	"masonry-backend/internal/infrastructure/storage"
	"masonry-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers drives bulk imports: a consumed upload is staged in the temp
// folder, fed through the pipeline and removed afterwards, whatever the
// outcome.
type Handlers struct {
	Service       *masonry.Service
	Notifications *notifications.Service
	Storage       storage.Config
}

// ImportFile POST /api/v1/investments/:investmentID/import/:kind
//
// Expects a multipart "file" field holding a semicolon-separated CSV.
// An optional worker_id query parameter queues a notification with the
// outcome.
func (h *Handlers) ImportFile(c *fiber.Ctx) error {
	investmentID, err := c.ParamsInt("investmentID")
	if err != nil || investmentID < 1 {
		return response.Error(c, "invalid investmentID", fiber.StatusBadRequest, nil)
	}
	kind := c.Params("kind")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, "file is required", fiber.StatusBadRequest, nil)
	}
	if !h.Storage.Allowed(fileHeader.Filename) {
		return response.Error(c, "file type not allowed", fiber.StatusBadRequest, nil)
	}
	src, err := fileHeader.Open()
	if err != nil {
		return response.Error(c, "could not read upload", fiber.StatusBadRequest, nil)
	}
	defer src.Close()

	path, err := h.Storage.SaveTemp(src, fileHeader.Filename)
	if err != nil {
		return response.Error(c, "could not store upload", fiber.StatusInternalServerError, nil)
	}
	defer storage.Remove(path)

	var messages []string
	switch kind {
	case masonry.KindWalls:
		messages, err = h.Service.ImportWalls(c.Context(), uint(investmentID), path)
	case masonry.KindHoles:
		messages, err = h.Service.ImportHoles(c.Context(), uint(investmentID), path)
	case masonry.KindProcessing:
		messages, err = h.Service.ImportProcessing(c.Context(), uint(investmentID), path)
	default:
		return response.Error(c, "unknown import kind", fiber.StatusBadRequest, nil)
	}
	if err != nil {
		// File-level failure: nothing was processed.
		return response.Error(c, "Could not read the file: "+err.Error(), fiber.StatusBadRequest, nil)
	}

	if workerID := c.QueryInt("worker_id"); workerID > 0 && h.Notifications != nil {
		_ = h.Notifications.Push(c.Context(), notifications.Notification{
			WorkerID:    uint(workerID),
			Type:        "import",
			Description: messages[0],
		})
	}
	return response.Success(c, "Import finished", fiber.Map{"messages": messages}, nil)
}
