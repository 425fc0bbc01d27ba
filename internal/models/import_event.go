package models

import (
	"time"

	"gorm.io/datatypes"
)

// ImportEvent records one bulk-import run: which file kind was processed for
// which investment, how many rows made it in, and the message summary the
// caller was shown.
type ImportEvent struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	InvestmentID uint           `gorm:"column:investment_id;not null;index" json:"investment_id"`
	Kind         string         `gorm:"column:kind;type:varchar(30);not null" json:"kind"`
	Uploaded     int            `gorm:"column:uploaded;not null" json:"uploaded"`
	Summary      datatypes.JSON `gorm:"column:summary" json:"summary"`
	CreatedAt    time.Time      `json:"createdAt"`
}

func (ImportEvent) TableName() string {
	return "ImportEvents"
}
