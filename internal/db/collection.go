package db

import "gorm.io/gorm"

// Collection 定义了文件集合模型，跨文件夹聚合文件。
type Collection struct {
	gorm.Model
	Name    string `gorm:"not null"`
	OwnerID uint
	Files   []File `gorm:"many2many:collection_files;"`
}
