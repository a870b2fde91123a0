package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal 储蓄目标
type Goal struct {
	UUIDModel
	UserID        uint                `json:"user_id" gorm:"index;not null"`
	Name          string              `json:"name" gorm:"size:100;not null"`
	TargetAmount  decimal.NullDecimal `json:"target_amount" gorm:"type:decimal(12,2)"`
	CurrentAmount decimal.Decimal     `json:"current_amount" gorm:"type:decimal(12,2);not null;default:0"`
	Color         string              `json:"color" gorm:"size:20"`
	Icon          string              `json:"icon" gorm:"size:50"`
	Deadline      *string             `json:"deadline,omitempty" gorm:"type:char(10)"`
	IsCompleted   bool                `json:"is_completed" gorm:"default:false;index"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func (Goal) TableName() string {
	return "goals"
}
