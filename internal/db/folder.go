package db

import "gorm.io/gorm"

// Folder 定义了文件夹模型。CoverFileID 指向用作封面的文件，
// 唯一索引保证一份文件只充当一个文件夹的封面。
type Folder struct {
	gorm.Model
	Name        string `gorm:"not null"`
	ParentID    *uint
	Parent      *Folder
	OwnerID     uint
	CoverFileID *uint `gorm:"uniqueIndex"`
}
