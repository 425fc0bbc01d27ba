package investments

import (
	"errors"
	"strings"

	"masonry-backend/internal/application/investments"
	"masonry-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles investment handlers.
type Handlers struct {
	Service *investments.Service
}

type investmentRequest struct {
	Name string `json:"name"`
}

// List GET /api/v1/investments
func (h *Handlers) List(c *fiber.Ctx) error {
	invs, err := h.Service.List(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Investments fetched successfully", invs, nil)
}

// Create POST /api/v1/investments
func (h *Handlers) Create(c *fiber.Ctx) error {
	var req investmentRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return response.Error(c, "name is required", fiber.StatusBadRequest, nil)
	}
	inv, err := h.Service.Create(c.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		if msg := err.Error(); strings.Contains(msg, "UNIQUE") || strings.Contains(msg, "duplicate key") {
			return response.Error(c, "investment name already used", fiber.StatusConflict, nil)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.SuccessCreated(c, "Investment created successfully", inv, nil)
}

// Get GET /api/v1/investments/:investmentID
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("investmentID")
	if err != nil || id < 1 {
		return response.Error(c, "invalid investmentID", fiber.StatusBadRequest, nil)
	}
	inv, err := h.Service.Get(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, investments.ErrInvestmentNotFound) {
			return response.NotFound(c, err.Error())
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Investment fetched successfully", inv, nil)
}

// Rename PUT /api/v1/investments/:investmentID
func (h *Handlers) Rename(c *fiber.Ctx) error {
	id, err := c.ParamsInt("investmentID")
	if err != nil || id < 1 {
		return response.Error(c, "invalid investmentID", fiber.StatusBadRequest, nil)
	}
	var req investmentRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return response.Error(c, "name is required", fiber.StatusBadRequest, nil)
	}
	inv, err := h.Service.Rename(c.Context(), uint(id), strings.TrimSpace(req.Name))
	if err != nil {
		if errors.Is(err, investments.ErrInvestmentNotFound) {
			return response.NotFound(c, err.Error())
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Investment updated successfully", inv, nil)
}

// Delete DELETE /api/v1/investments/:investmentID
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("investmentID")
	if err != nil || id < 1 {
		return response.Error(c, "invalid investmentID", fiber.StatusBadRequest, nil)
	}
	if err := h.Service.Delete(c.Context(), uint(id)); err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Investment deleted successfully", nil, nil)
}
