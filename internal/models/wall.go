package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wall is a physical masonry wall segment within an investment. LocalID is
// the caller-assigned key, unique per investment, used as the natural key
// for bulk upserts.
//
// The derived columns (wall_height through left_to_sale) are cached values
// recomputed synchronously by Recalculate on every mutation; the stored
// geometric inputs remain the only source of truth.
type Wall struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	InvestmentID uint            `gorm:"column:investment_id;not null;uniqueIndex:idx_walls_invest_local" json:"investment_id"`
	LocalID      int             `gorm:"column:local_id;not null;uniqueIndex:idx_walls_invest_local" json:"local_id"`
	Sector       string          `gorm:"column:sector;type:varchar(64)" json:"sector"`
	Level        string          `gorm:"column:level;type:varchar(64)" json:"level"`
	Localization string          `gorm:"column:localization;type:varchar(128)" json:"localization"`
	BrickType    string          `gorm:"column:brick_type;type:varchar(64)" json:"brick_type"`
	WallWidth    int             `gorm:"column:wall_width" json:"wall_width"`
	WallLength   decimal.Decimal `gorm:"column:wall_length;type:decimal(18,4)" json:"wall_length"`
	FloorOrd     decimal.Decimal `gorm:"column:floor_ord;type:decimal(18,4)" json:"floor_ord"`
	CeilingOrd   decimal.Decimal `gorm:"column:ceiling_ord;type:decimal(18,4)" json:"ceiling_ord"`

	WallHeight       decimal.Decimal `gorm:"column:wall_height;type:decimal(18,4)" json:"wall_height"`
	GrossWallArea    decimal.Decimal `gorm:"column:gross_wall_area;type:decimal(18,4)" json:"gross_wall_area"`
	WallAreaToSurvey decimal.Decimal `gorm:"column:wall_area_to_survey;type:decimal(18,4)" json:"wall_area_to_survey"`
	WallAreaToSale   decimal.Decimal `gorm:"column:wall_area_to_sale;type:decimal(18,4)" json:"wall_area_to_sale"`
	LeftToSale       decimal.Decimal `gorm:"column:left_to_sale;type:decimal(9,8)" json:"left_to_sale"`

	Holes      []Hole       `gorm:"foreignKey:WallID;constraint:OnDelete:CASCADE" json:"holes,omitempty"`
	Processing []Processing `gorm:"foreignKey:WallID;constraint:OnDelete:CASCADE" json:"processing,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Wall) TableName() string {
	return "Walls"
}

// Recalculate refreshes all derived columns from the stored inputs and the
// loaded hole and processing children. Holes without both dimensions
// recorded yet contribute no deduction.
func (w *Wall) Recalculate() {
	w.WallHeight = w.CeilingOrd.Sub(w.FloorOrd)
	w.GrossWallArea = w.WallLength.Mul(w.WallHeight)

	survey := w.GrossWallArea
	sale := w.GrossWallArea
	for i := range w.Holes {
		h := &w.Holes[i]
		total, err := h.TotalArea()
		if err != nil {
			continue
		}
		survey = survey.Sub(total)
		exempt, _ := h.Exempt()
		if !exempt {
			// One area-unit of compensation per opening instance.
			sale = sale.Sub(total.Sub(decimal.NewFromInt(int64(h.Amount))))
		}
	}
	w.WallAreaToSurvey = survey
	w.WallAreaToSale = sale
	w.LeftToSale = LeftToSale(w.Processing)
}
