package service

import (
	"errors"
	"strings"

	"github.com/filedraft/internal/db"
	"gorm.io/gorm"
)

var (
	ErrFolderNotFound = errors.New("folder not found")
	ErrFolderName     = errors.New("folder name is required")
)

// FolderService wraps folder related database operations.
type FolderService struct {
	db *gorm.DB
}

// NewFolderService creates a FolderService instance.
func NewFolderService(gdb *gorm.DB) *FolderService {
	return &FolderService{db: gdb}
}

// Create persists a folder.
func (s *FolderService) Create(name string, parentID *uint, ownerID uint) (*db.Folder, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrFolderName
	}
	folder := db.Folder{Name: trimmed, ParentID: parentID, OwnerID: ownerID}
	if err := s.db.Create(&folder).Error; err != nil {
		return nil, err
	}
	return &folder, nil
}

// ListAll returns all folders ordered by name.
func (s *FolderService) ListAll() ([]db.Folder, error) {
	var folders []db.Folder
	if err := s.db.Order("name asc").Find(&folders).Error; err != nil {
		return nil, err
	}
	return folders, nil
}

// SetCover points the folder's cover at the given file. The unique index on
// cover_file_id keeps one file from covering two folders; a conflict
// surfaces as a constraint error.
func (s *FolderService) SetCover(folderID, fileID uint) (*db.Folder, error) {
	var folder db.Folder
	if err := s.db.First(&folder, folderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFolderNotFound
		}
		return nil, err
	}

	var file db.File
	if err := s.db.First(&file, fileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}

	if err := s.db.Model(&folder).Update("cover_file_id", file.ID).Error; err != nil {
		return nil, err
	}
	folder.CoverFileID = &file.ID
	return &folder, nil
}
