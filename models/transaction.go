package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout 交易日期格式（无时间部分）
const DateLayout = "2006-01-02"

// Transaction 收支记录
// IncomeCategoryID 仅支出记录使用，记录该笔支出的资金来源（收入类别）
type Transaction struct {
	UUIDModel
	UserID           uint            `json:"user_id" gorm:"index;not null"`
	Name             string          `json:"name" gorm:"size:100;not null"`
	Type             CategoryType    `json:"type" gorm:"size:10;not null;index"`
	Amount           decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	Date             string          `json:"date" gorm:"type:char(10);not null;index"`
	CategoryID       string          `json:"category_id" gorm:"size:36;not null;index"`
	IncomeCategoryID *string         `json:"income_category_id,omitempty" gorm:"size:36;index"`
	Observation      *string         `json:"observation,omitempty" gorm:"size:500"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// TransactionRow 交易与类别关联后的扁平结构，供统计使用
type TransactionRow struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Type          CategoryType    `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
	CategoryID    string          `json:"category_id"`
	CategoryName  string          `json:"category_name"`
	CategoryColor string          `json:"category_color"`
	CategoryIcon  string          `json:"category_icon"`
}

// ParseDate 解析 YYYY-MM-DD 日期
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("日期格式错误，应为 %s: %w", DateLayout, err)
	}
	return t, nil
}

// MonthRange 返回某月第一天和最后一天的日期字符串
func MonthRange(year, month int) (string, string) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format(DateLayout), last.Format(DateLayout)
}
