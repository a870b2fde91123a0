package models

import (
	"encoding/hex"
	"time"
)

// RefreshToken 刷新令牌，用于换取新的访问 token
type RefreshToken struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Token     string    `json:"-" gorm:"size:64;not null;uniqueIndex"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 设置表名
func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// IsExpired 检查刷新令牌是否过期
func (r *RefreshToken) IsExpired() bool {
	return time.Now().After(r.ExpiresAt)
}

// GenerateRefreshToken 生成 64 位十六进制随机串
func GenerateRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := randRead(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
