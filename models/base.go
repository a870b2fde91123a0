package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// 金额在 JSON 中输出为数字而非字符串
	decimal.MarshalJSONWithoutQuotes = true
}

// UUIDModel 以 UUID 字符串为主键的实体
type UUIDModel struct {
	ID string `json:"id" gorm:"primaryKey;size:36"`
}

// BeforeCreate 未指定 ID 时自动生成
func (m *UUIDModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
