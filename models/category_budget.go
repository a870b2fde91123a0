package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryBudget 类别月度预算快照，每个 (类别, 年, 月) 一行
// 行不存在表示该月未配置预算，而不是预算为 0
type CategoryBudget struct {
	UUIDModel
	UserID       uint                `json:"user_id" gorm:"index;not null"`
	CategoryID   string              `json:"category_id" gorm:"size:36;not null;uniqueIndex:idx_budget_period"`
	Year         int                 `json:"year" gorm:"not null;uniqueIndex:idx_budget_period"`
	Month        int                 `json:"month" gorm:"not null;uniqueIndex:idx_budget_period"`
	BudgetAmount decimal.NullDecimal `json:"budget_amount" gorm:"type:decimal(12,2)"`
	SpentAmount  decimal.NullDecimal `json:"spent_amount" gorm:"type:decimal(12,2)"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

func (CategoryBudget) TableName() string {
	return "category_budgets"
}

// Spent 已支出金额，NULL 视为 0
func (b *CategoryBudget) Spent() decimal.Decimal {
	if !b.SpentAmount.Valid {
		return decimal.Zero
	}
	return b.SpentAmount.Decimal
}
