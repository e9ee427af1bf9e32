package service

import (
	"errors"
	"strings"

	"github.com/filedraft/internal/db"
	"gorm.io/gorm"
)

var (
	ErrTagExists   = errors.New("tag already exists")
	ErrTagNotFound = errors.New("tag not found")
	ErrTagInUse    = errors.New("tag is still referenced by files")
	ErrTagName     = errors.New("tag name is required")
)

// TagService wraps tag related database operations.
type TagService struct {
	db *gorm.DB
}

// NewTagService creates a TagService instance.
func NewTagService(gdb *gorm.DB) *TagService {
	return &TagService{db: gdb}
}

// List returns all tags ordered by name.
func (s *TagService) List() ([]db.Tag, error) {
	var tags []db.Tag
	if err := s.db.Order("name asc").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// Create persists a new tag with a unique name.
func (s *TagService) Create(name string) (*db.Tag, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrTagName
	}

	var existing db.Tag
	err := s.db.Where("name = ?", trimmed).First(&existing).Error
	if err == nil {
		return nil, ErrTagExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag := db.Tag{Name: trimmed}
	if err := s.db.Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// Delete removes a tag that no file references anymore.
func (s *TagService) Delete(id uint) error {
	var tag db.Tag
	if err := s.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTagNotFound
		}
		return err
	}

	count := s.db.Model(&tag).Association("Files").Count()
	if count > 0 {
		return ErrTagInUse
	}

	return s.db.Delete(&tag).Error
}
