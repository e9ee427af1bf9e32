package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShareLink 定义了文件分享链接模型
type ShareLink struct {
	gorm.Model
	Token       string `gorm:"size:36;uniqueIndex;not null"`
	FileID      uint   `gorm:"index;not null"`
	File        File
	ExpiresAt   *time.Time
	CreatedByID uint
}

// NewShareToken 生成一个不可猜测的分享令牌。
func NewShareToken() string {
	return uuid.NewString()
}
