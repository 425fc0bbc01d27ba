package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrHoleDimensions is returned when a derived value is read from a hole
// that does not have both width and height recorded yet.
var ErrHoleDimensions = errors.New("hole width and height must both be recorded")

// exemptLimit is the area below which a hole is exempt from the sale-area
// deduction (strictly below 3 square metres).
var exemptLimit = decimal.NewFromInt(3)

// Hole is an opening cut into a wall. A hole may be registered with only an
// amount and get its dimensions later, so width and height are nullable;
// derived values are computed on read and fail until both dimensions exist.
type Hole struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	WallID    uint             `gorm:"column:wall_id;not null;index" json:"wall_id"`
	Width     *decimal.Decimal `gorm:"column:width;type:decimal(18,4)" json:"width"`
	Height    *decimal.Decimal `gorm:"column:height;type:decimal(18,4)" json:"height"`
	Amount    int              `gorm:"column:amount;not null;default:1" json:"amount"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

func (Hole) TableName() string {
	return "Holes"
}

// Area returns width*height for a single opening.
func (h *Hole) Area() (decimal.Decimal, error) {
	if h.Width == nil || h.Height == nil {
		return decimal.Decimal{}, ErrHoleDimensions
	}
	return h.Width.Mul(*h.Height), nil
}

// TotalArea returns the combined area of all identical openings.
func (h *Hole) TotalArea() (decimal.Decimal, error) {
	area, err := h.Area()
	if err != nil {
		return decimal.Decimal{}, err
	}
	return area.Mul(decimal.NewFromInt(int64(h.Amount))), nil
}

// Exempt reports whether the opening is small enough (strictly below 3 m²)
// to be excluded from the sale-area deduction. An opening of exactly 3 m²
// is not exempt.
func (h *Hole) Exempt() (bool, error) {
	area, err := h.Area()
	if err != nil {
		return false, err
	}
	return area.LessThan(exemptLimit), nil
}
