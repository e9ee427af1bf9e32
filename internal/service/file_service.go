package service

import (
	"errors"
	"strings"
	"time"

	"github.com/filedraft/internal/db"
	"github.com/filedraft/internal/versioning"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrFileNotFound     = errors.New("file not found")
	ErrLiveImmutable    = errors.New("live files can only change through the publish workflow")
	ErrWorkflowRequired = errors.New("published files are removed through the deletion workflow")
	ErrNoDraft          = errors.New("file has no draft")
)

// FileService wraps file related database operations and drives the
// draft/live workflow for file records.
type FileService struct {
	db       *gorm.DB
	workflow *versioning.Workflow
}

// FileFilter describes filters for listing files.
type FileFilter struct {
	Search  string
	Status  string
	Page    int
	PerPage int
}

// FileListResult aggregates paginated list data and counters.
type FileListResult struct {
	Files                []db.File
	Total                int64
	LiveCount            int64
	PendingChangesCount  int64
	PendingDeletionCount int64
	TotalPages           int
	Page                 int
	PerPage              int
}

// FileInput represents fields accepted when creating or updating a file
// record. Draft controls whether a new record starts as an unpublished
// orphan draft instead of going live immediately.
type FileInput struct {
	Name             string
	OriginalFilename string
	MimeType         string
	Size             int64
	Checksum         string
	Description      string
	FolderID         *uint
	TagIDs           []uint
	OwnerID          uint
	Draft            bool
}

// FileStatus bundles a file with its derived workflow state for the admin
// detail view.
type FileStatus struct {
	File              *db.File
	HasPendingChanges bool
	DraftID           *uint
	LiveID            *uint
}

// NewFileService creates a FileService instance.
func NewFileService(gdb *gorm.DB, reg *versioning.Registry) *FileService {
	return &FileService{db: gdb, workflow: versioning.NewWorkflow(gdb, reg)}
}

// Get fetches a file by id with tags preloaded.
func (s *FileService) Get(id uint) (*db.File, error) {
	var file db.File
	if err := s.db.Preload("Tags").Preload("Folder").First(&file, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return &file, nil
}

// Create persists a new file record. By default the record goes live right
// away (published_at set); with input.Draft it starts as an orphan draft that
// must be published before it counts as live content.
func (s *FileService) Create(input FileInput) (*db.File, error) {
	file := db.File{
		Name:             strings.TrimSpace(input.Name),
		OriginalFilename: input.OriginalFilename,
		MimeType:         input.MimeType,
		Size:             input.Size,
		Checksum:         input.Checksum,
		StorageKey:       uuid.NewString(),
		Description:      input.Description,
		FolderID:         input.FolderID,
		OwnerID:          input.OwnerID,
	}
	if !input.Draft {
		now := time.Now()
		file.IsLive = true
		file.PublishedAt = &now
	}
	return s.saveWithTags(&file, input.TagIDs)
}

// Update applies edits to a draft. Live records are read-only outside the
// workflow.
func (s *FileService) Update(id uint, input FileInput) (*db.File, error) {
	existing, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if existing.IsLive {
		return nil, ErrLiveImmutable
	}

	existing.Name = strings.TrimSpace(input.Name)
	existing.OriginalFilename = input.OriginalFilename
	existing.MimeType = input.MimeType
	existing.Size = input.Size
	existing.Checksum = input.Checksum
	existing.Description = input.Description
	existing.FolderID = input.FolderID

	return s.saveWithTags(existing, input.TagIDs)
}

// Delete removes an orphan draft outright. Anything published goes through
// the two-phase deletion workflow instead.
func (s *FileService) Delete(id uint) error {
	file, err := s.Get(id)
	if err != nil {
		return err
	}
	if file.IsLive || file.LiveID != nil {
		return ErrWorkflowRequired
	}
	return s.db.Select(clause.Associations).Unscoped().Delete(file).Error
}

// Status returns the file along with its derived workflow state.
func (s *FileService) Status(id uint) (*FileStatus, error) {
	file, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	pending, err := s.workflow.HasPendingChanges(file)
	if err != nil {
		return nil, err
	}

	status := &FileStatus{File: file, HasPendingChanges: pending, LiveID: file.LiveID}
	draft, err := s.workflow.Draft(file)
	if err != nil {
		return nil, err
	}
	if draft != nil && draft.PrimaryID() != file.ID {
		draftID := draft.PrimaryID()
		status.DraftID = &draftID
	}
	return status, nil
}

// Actions derives the workflow actions currently offered for the file.
func (s *FileService) Actions(id uint, actor versioning.Actor) (map[string]versioning.Action, error) {
	file, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return s.workflow.AvailableActions(file, actor)
}

// CreateDraft starts an editing session on a live file.
func (s *FileService) CreateDraft(id uint) (*db.File, error) {
	file, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	draft, err := s.workflow.CreateDraft(file)
	if err != nil {
		return nil, err
	}
	return draft.(*db.File), nil
}

// DiscardDraft throws away the draft belonging to the file (or the file
// itself when it is the draft).
func (s *FileService) DiscardDraft(id uint) error {
	file, err := s.Get(id)
	if err != nil {
		return err
	}
	target := versioning.Entity(file)
	if file.IsLive {
		draft, err := s.workflow.Draft(file)
		if err != nil {
			return err
		}
		if draft == nil {
			return ErrNoDraft
		}
		target = draft
	}
	return s.workflow.DiscardDraft(target)
}

// Publish promotes the file's draft to live and returns the authoritative
// record.
func (s *FileService) Publish(id uint, validate bool) (*db.File, error) {
	file, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	target := versioning.Entity(file)
	if file.IsLive {
		draft, err := s.workflow.Draft(file)
		if err != nil {
			return nil, err
		}
		if draft == nil {
			return nil, ErrNoDraft
		}
		target = draft
	}
	live, err := s.workflow.Publish(target, validate)
	if err != nil {
		return nil, err
	}
	return live.(*db.File), nil
}

// RequestDeletion opens the deletion request on the file's live record.
func (s *FileService) RequestDeletion(id uint) (*db.File, error) {
	file, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	live, err := s.workflow.RequestDeletion(file)
	if err != nil {
		return nil, err
	}
	return live.(*db.File), nil
}

// DiscardRequestedDeletion cancels a pending deletion request.
func (s *FileService) DiscardRequestedDeletion(id uint) error {
	file, err := s.Get(id)
	if err != nil {
		return err
	}
	return s.workflow.DiscardRequestedDeletion(file)
}

// PublishDeletion confirms a pending deletion request and removes the live
// record for good.
func (s *FileService) PublishDeletion(id uint) error {
	file, err := s.Get(id)
	if err != nil {
		return err
	}
	return s.workflow.PublishDeletion(file)
}

// CreateShareLink issues a share token for the file.
func (s *FileService) CreateShareLink(fileID, createdBy uint, expiresAt *time.Time) (*db.ShareLink, error) {
	if _, err := s.Get(fileID); err != nil {
		return nil, err
	}
	link := db.ShareLink{
		Token:       db.NewShareToken(),
		FileID:      fileID,
		ExpiresAt:   expiresAt,
		CreatedByID: createdBy,
	}
	if err := s.db.Create(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// List provides paginated files with workflow counters based on filters.
func (s *FileService) List(filter FileFilter) (*FileListResult, error) {
	result := &FileListResult{Page: filter.Page, PerPage: filter.PerPage}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.PerPage <= 0 {
		result.PerPage = 20
	}

	query := s.db.Model(&db.File{})
	query = s.applyFilters(query, filter)

	if err := query.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&db.File{}).Scopes(versioning.Live).
		Count(&result.LiveCount).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&db.File{}).Scopes(versioning.PendingChanges(db.FileKind)).
		Count(&result.PendingChangesCount).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&db.File{}).Scopes(versioning.PendingDeletion).
		Count(&result.PendingDeletionCount).Error; err != nil {
		return nil, err
	}

	result.TotalPages = int((result.Total + int64(result.PerPage) - 1) / int64(result.PerPage))

	offset := (result.Page - 1) * result.PerPage
	listQuery := s.applyFilters(s.db.Model(&db.File{}), filter)
	if err := listQuery.Preload("Tags").
		Order("created_at desc").
		Offset(offset).
		Limit(result.PerPage).
		Find(&result.Files).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (s *FileService) applyFilters(query *gorm.DB, filter FileFilter) *gorm.DB {
	search := strings.TrimSpace(filter.Search)
	if search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	switch filter.Status {
	case "live":
		query = query.Scopes(versioning.Live)
	case "draft":
		query = query.Scopes(versioning.Draft)
	case "pending_changes":
		query = query.Scopes(versioning.PendingChanges(db.FileKind))
	case "pending_deletion":
		query = query.Scopes(versioning.PendingDeletion)
	}
	return query
}

func (s *FileService) saveWithTags(file *db.File, tagIDs []uint) (*db.File, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(file).Error; err != nil {
			return err
		}

		if tagIDs == nil {
			return nil
		}

		var tags []db.Tag
		if len(tagIDs) > 0 {
			if err := tx.Find(&tags, tagIDs).Error; err != nil {
				return err
			}
		}
		assoc := tx.Model(file).Association("Tags")
		if len(tags) == 0 {
			return assoc.Clear()
		}
		return assoc.Replace(&tags)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(file.ID)
}
