package db

import (
	"errors"

	"github.com/filedraft/internal/versioning"
	"gorm.io/gorm"
)

// FileKind 是 File 在关系注册表中的标识，同时也是表名。
const FileKind = "files"

// File 定义了上传文件记录模型。同一份内容最多存在两行：
// 已发布的 live 行和一份链接到它的草稿行。
type File struct {
	gorm.Model
	versioning.Versioned
	Name             string `gorm:"not null"`
	OriginalFilename string
	MimeType         string
	Size             int64
	Checksum         string `gorm:"size:64"`
	StorageKey       string `gorm:"size:36"`
	Description      string `gorm:"type:text"`
	FolderID         *uint
	Folder           *Folder
	OwnerID          uint
	Owner            User
	Tags             []Tag `gorm:"many2many:file_tags;"`
}

// TableName 指定自定义表名。
func (File) TableName() string { return FileKind }

// BeforeSave 在每次写入前校验 draft/live 的结构不变量。
func (f *File) BeforeSave(tx *gorm.DB) error {
	return f.Versioned.Validate()
}

// Kind implements versioning.Entity.
func (f *File) Kind() string { return FileKind }

// PrimaryID implements versioning.Entity.
func (f *File) PrimaryID() uint { return f.ID }

// SetPrimaryID implements versioning.Entity.
func (f *File) SetPrimaryID(id uint) { f.ID = id }

// NewBlank implements versioning.Entity.
func (f *File) NewBlank() versioning.Entity { return &File{} }

// CopyFieldsFrom copies domain data from another file, leaving identity and
// versioning state untouched.
func (f *File) CopyFieldsFrom(old versioning.Entity) error {
	src, ok := old.(*File)
	if !ok {
		return versioning.ErrKindMismatch
	}
	f.Name = src.Name
	f.OriginalFilename = src.OriginalFilename
	f.MimeType = src.MimeType
	f.Size = src.Size
	f.Checksum = src.Checksum
	f.StorageKey = src.StorageKey
	f.Description = src.Description
	f.FolderID = src.FolderID
	f.OwnerID = src.OwnerID
	return nil
}

// CopyRelations mirrors the old file's tag associations onto this one. Runs
// after a field copy, on the transition's transaction.
func (f *File) CopyRelations(tx *gorm.DB, old versioning.Entity) error {
	src, ok := old.(*File)
	if !ok {
		return versioning.ErrKindMismatch
	}
	var tags []Tag
	if err := tx.Model(src).Association("Tags").Find(&tags); err != nil {
		return err
	}
	assoc := tx.Model(f).Association("Tags")
	if len(tags) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(&tags)
}

// CanPublish rejects drafts that are missing the data every published file
// record must carry.
func (f *File) CanPublish() error {
	if f.Name == "" {
		return errors.New("file has no name")
	}
	if f.StorageKey == "" {
		return errors.New("file has no storage key")
	}
	return nil
}

// UserCanPublish adds no file-specific rule beyond the actor's own publish
// privilege.
func (f *File) UserCanPublish(actor versioning.Actor) bool { return true }
