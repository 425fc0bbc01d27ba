package walls

import (
	"errors"
	"strings"

	"masonry-backend/internal/application/masonry"
	"masonry-backend/internal/models"
	"masonry-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Handlers bundles wall, hole and processing handlers.
type Handlers struct {
	Service *masonry.Service
}

func mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, masonry.ErrWallNotFound),
		errors.Is(err, masonry.ErrHoleNotFound),
		errors.Is(err, masonry.ErrProcessingNotFound),
		errors.Is(err, masonry.ErrInvestmentNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, models.ErrDoneOutOfRange),
		errors.Is(err, models.ErrHoleDimensions):
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	var vErr *masonry.ValidationError
	if errors.As(err, &vErr) {
		return response.Error(c, vErr.Error(), fiber.StatusBadRequest, nil)
	}
	if msg := err.Error(); strings.Contains(msg, "UNIQUE") || strings.Contains(msg, "duplicate key") {
		return response.Error(c, "local_id already used in this investment", fiber.StatusConflict, nil)
	}
	return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
}

func uintParam(c *fiber.Ctx, name string) (uint, error) {
	n, err := c.ParamsInt(name)
	if err != nil || n < 1 {
		return 0, errors.New("invalid " + name)
	}
	return uint(n), nil
}

type wallRequest struct {
	LocalID      *int             `json:"local_id"`
	Sector       *string          `json:"sector"`
	Level        *string          `json:"level"`
	Localization *string          `json:"localization"`
	BrickType    *string          `json:"brick_type"`
	WallWidth    *int             `json:"wall_width"`
	WallLength   *decimal.Decimal `json:"wall_length"`
	FloorOrd     *decimal.Decimal `json:"floor_ord"`
	CeilingOrd   *decimal.Decimal `json:"ceiling_ord"`
}

// ListWalls GET /api/v1/investments/:investmentID/walls
func (h *Handlers) ListWalls(c *fiber.Ctx) error {
	investmentID, err := uintParam(c, "investmentID")
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	filters := masonry.WallFilters{
		Sector:       c.Query("sector"),
		Level:        c.Query("level"),
		Localization: c.Query("localization"),
		BrickType:    c.Query("brick_type"),
	}
	if width := c.QueryInt("wall_width"); width > 0 {
		filters.WallWidth = &width
	}
	walls, err := h.Service.ListWalls(c.Context(), investmentID, filters)
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Walls fetched successfully", walls, fiber.Map{
		"total": masonry.SumAreas(walls),
	})
}

// CreateWall POST /api/v1/investments/:investmentID/walls
func (h *Handlers) CreateWall(c *fiber.Ctx) error {
	investmentID, err := uintParam(c, "investmentID")
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	var req wallRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	if req.LocalID == nil || req.WallLength == nil || req.FloorOrd == nil || req.CeilingOrd == nil {
		return response.Error(c, "local_id, wall_length, floor_ord and ceiling_ord are required", fiber.StatusBadRequest, nil)
	}
	in := masonry.WallInput{
		LocalID:    *req.LocalID,
		WallLength: *req.WallLength,
		FloorOrd:   *req.FloorOrd,
		CeilingOrd: *req.CeilingOrd,
	}
	if req.Sector != nil {
		in.Sector = *req.Sector
	}
	if req.Level != nil {
		in.Level = *req.Level
	}
	if req.Localization != nil {
		in.Localization = *req.Localization
	}
	if req.BrickType != nil {
		in.BrickType = *req.BrickType
	}
	if req.WallWidth != nil {
		in.WallWidth = *req.WallWidth
	}
	wall, err := h.Service.CreateWall(c.Context(), investmentID, in)
	if err != nil {
		return mapError(c, err)
	}
	return response.SuccessCreated(c, "Wall created successfully", wall, nil)
}

// GetWall GET /api/v1/walls/:wallID
func (h *Handlers) GetWall(c *fiber.Ctx) error {
	wallID, err := uintParam(c, "wallID")
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	wall, err := h.Service.GetWall(c.Context(), wallID)
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Wall fetched successfully", wall, nil)
}

// EditWall PUT /api/v1/walls/:wallID
func (h *Handlers) EditWall(c *fiber.Ctx) error {
	wallID, err := uintParam(c, "wallID")
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	var req wallRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	wall, err := h.Service.EditWall(c.Context(), wallID, masonry.WallUpdate{
		LocalID:      req.LocalID,
		Sector:       req.Sector,
		Level:        req.Level,
		Localization: req.Localization,
		BrickType:    req.BrickType,
		WallWidth:    req.WallWidth,
		WallLength:   req.WallLength,
		FloorOrd:     req.FloorOrd,
		CeilingOrd:   req.CeilingOrd,
	})
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Wall updated successfully", wall, nil)
}

// DeleteWall DELETE /api/v1/walls/:wallID
func (h *Handlers) DeleteWall(c *fiber.Ctx) error {
	wallID, err := uintParam(c, "wallID")
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	if err := h.Service.DeleteWall(c.Context(), wallID); err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Wall deleted successfully", nil, nil)
}

// GetAreaFields GET /api/v1/walls/:wallID/areas
func (h *Handlers) GetAreaFields(c *fiber.Ctx) error {
	wallID, err := uintParam(c, "wallID")
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	fields, err := h.Service.GetWallAreaFields(c.Context(), wallID)
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Wall areas fetched successfully", fields, nil)
}

// GetLeftToSale GET /api/v1/walls/:wallID/left-to-sale
func (h *Handlers) GetLeftToSale(c *fiber.Ctx) error {
	wallID, err := uintParam(c, "wallID")
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	left, err := h.Service.GetLeftToSale(c.Context(), wallID)
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Left to sale fetched successfully", fiber.Map{"left_to_sale": left}, nil)
}

// Categories GET /api/v1/investments/:investmentID/walls/categories?column=sector
func (h *Handlers) Categories(c *fiber.Ctx) error {
	investmentID, err := uintParam(c, "investmentID")
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	values, err := h.Service.Categories(c.Context(), investmentID, c.Query("column"))
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Categories fetched successfully", values, nil)
}

type holeRequest struct {
	Width  *decimal.Decimal `json:"width"`
	Height *decimal.Decimal `json:"height"`
	Amount *int             `json:"amount"`
}

// AddHole POST /api/v1/walls/:wallID/holes
func (h *Handlers) AddHole(c *fiber.Ctx) error {
	wallID, err := uintParam(c, "wallID")
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	var req holeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	in := masonry.HoleInput{Width: req.Width, Height: req.Height}
	if req.Amount != nil {
		in.Amount = *req.Amount
	}
	hole, err := h.Service.AddHole(c.Context(), wallID, in)
	if err != nil {
		return mapError(c, err)
	}
	return response.SuccessCreated(c, "Hole created successfully", hole, nil)
}

// EditHole PUT /api/v1/holes/:holeID
func (h *Handlers) EditHole(c *fiber.Ctx) error {
	holeID, err := uintParam(c, "holeID")
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	var req holeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	hole, err := h.Service.EditHole(c.Context(), holeID, masonry.HoleUpdate{
		Width:  req.Width,
		Height: req.Height,
		Amount: req.Amount,
	})
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Hole updated successfully", hole, nil)
}

// DeleteHole DELETE /api/v1/holes/:holeID
func (h *Handlers) DeleteHole(c *fiber.Ctx) error {
	holeID, err := uintParam(c, "holeID")
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	if err := h.Service.DeleteHole(c.Context(), holeID); err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Hole deleted successfully", nil, nil)
}

type processingRequest struct {
	Year  *int             `json:"year"`
	Month *string          `json:"month"`
	Done  *decimal.Decimal `json:"done"`
}

// AddProcessing POST /api/v1/walls/:wallID/processing
func (h *Handlers) AddProcessing(c *fiber.Ctx) error {
	wallID, err := uintParam(c, "wallID")
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	var req processingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	if req.Year == nil || *req.Year == 0 || req.Done == nil {
		return response.Error(c, "year and done are required", fiber.StatusBadRequest, nil)
	}
	in := masonry.ProcessingInput{Year: *req.Year, Done: *req.Done}
	if req.Month != nil {
		in.Month = *req.Month
	}
	proc, err := h.Service.AddProcessing(c.Context(), wallID, in)
	if err != nil {
		return mapError(c, err)
	}
	return response.SuccessCreated(c, "Processing created successfully", proc, nil)
}

// EditProcessing PUT /api/v1/processing/:processingID
func (h *Handlers) EditProcessing(c *fiber.Ctx) error {
	procID, err := uintParam(c, "processingID")
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	var req processingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	proc, err := h.Service.EditProcessing(c.Context(), procID, masonry.ProcessingUpdate{
		Year:  req.Year,
		Month: req.Month,
		Done:  req.Done,
	})
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Processing updated successfully", proc, nil)
}

// DeleteProcessing DELETE /api/v1/processing/:processingID
func (h *Handlers) DeleteProcessing(c *fiber.Ctx) error {
	procID, err := uintParam(c, "processingID")
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	if err := h.Service.DeleteProcessing(c.Context(), procID); err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Processing deleted successfully", nil, nil)
}
