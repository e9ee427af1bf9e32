package db

import "gorm.io/gorm"

// Tag 定义了标签模型
type Tag struct {
	gorm.Model
	Name  string `gorm:"unique;not null"`
	Files []File `gorm:"many2many:file_tags;"`
}
