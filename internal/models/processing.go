package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrDoneOutOfRange is returned when a processing fraction outside [0, 1]
// is assigned. The range check runs before any clamping against the wall's
// remaining sellable fraction.
var ErrDoneOutOfRange = errors.New("done must be between 0 and 1")

// Processing is a recorded increment of completed work against a wall,
// expressed as a fraction of the wall's sellable area. Month is a free-text
// label, not a date.
type Processing struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	WallID    uint            `gorm:"column:wall_id;not null;index" json:"wall_id"`
	Year      int             `gorm:"column:year;not null" json:"year"`
	Month     string          `gorm:"column:month;type:varchar(64)" json:"month"`
	Done      decimal.Decimal `gorm:"column:done;type:decimal(9,8);not null" json:"done"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (Processing) TableName() string {
	return "Processing"
}

// NewProcessing builds an entry, rejecting a done fraction outside [0, 1].
func NewProcessing(wallID uint, year int, month string, done decimal.Decimal) (*Processing, error) {
	p := &Processing{WallID: wallID, Year: year, Month: month}
	if err := p.SetDone(done); err != nil {
		return nil, err
	}
	return p, nil
}

// SetDone assigns the completed fraction, enforcing the [0, 1] range.
func (p *Processing) SetDone(done decimal.Decimal) error {
	if done.IsNegative() || done.GreaterThan(decimal.NewFromInt(1)) {
		return ErrDoneOutOfRange
	}
	p.Done = done
	return nil
}

// LeftToSale folds processing entries, in id order, into the fraction of the
// wall's sellable area not yet accounted for. When an entry's done exceeds
// the running remainder the result is forced to exactly zero and the fold
// stops; the overrun handling lives in this one function so the policy can
// be changed in a single place.
func LeftToSale(entries []Processing) decimal.Decimal {
	left := decimal.NewFromInt(1)
	for i := range entries {
		if left.LessThan(entries[i].Done) {
			return decimal.Zero
		}
		left = left.Sub(entries[i].Done)
	}
	return left
}
