package models

import (
	"time"
)

// Investment is the owning scope for walls: every wall belongs to exactly
// one investment and wall local ids are unique within it.
type Investment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(128);not null;uniqueIndex" json:"name"`
	Walls     []Wall    `gorm:"foreignKey:InvestmentID;constraint:OnDelete:CASCADE" json:"walls,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Investment) TableName() string {
	return "Investments"
}
