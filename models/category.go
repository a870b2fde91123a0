package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryType 类别类型
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Valid 是否为合法的类别类型
func (t CategoryType) Valid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

// DefaultCategoryColor 默认颜色
const DefaultCategoryColor = "#64748b"

// Category 收支类别
// 删除时仅将 IsActive 置为 false，保留历史交易的引用
type Category struct {
	UUIDModel
	UserID        uint                `json:"user_id" gorm:"index;not null"`
	Name          string              `json:"name" gorm:"size:50;not null"`
	Type          CategoryType        `json:"type" gorm:"size:10;not null;index"`
	Icon          string              `json:"icon" gorm:"size:50"`
	Color         string              `json:"color" gorm:"size:20;default:#64748b"`
	MonthlyBudget decimal.NullDecimal `json:"monthly_budget" gorm:"type:decimal(12,2)"` // 仅支出类别有意义
	IsActive      bool                `json:"is_active" gorm:"default:true;index"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

// HasBudget 是否配置了有效的月预算
func (c *Category) HasBudget() bool {
	return c.Type == CategoryTypeExpense && c.MonthlyBudget.Valid && c.MonthlyBudget.Decimal.IsPositive()
}
