package handler

import (
	"bytes"
	"net/http"
	"time"

	"github.com/filedraft/internal/db"
	"github.com/filedraft/internal/service"
	"github.com/filedraft/internal/versioning"
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"gorm.io/gorm"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db      *gorm.DB
	files   *service.FileService
	folders *service.FolderService
	tags    *service.TagService
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB) *API {
	return &API{
		db:      gdb,
		files:   service.NewFileService(gdb, db.Relations),
		folders: service.NewFolderService(gdb),
		tags:    service.NewTagService(gdb),
	}
}

type fileInputData struct {
	Name             string `json:"name"`
	OriginalFilename string `json:"original_filename"`
	MimeType         string `json:"mime_type"`
	Size             int64  `json:"size"`
	Checksum         string `json:"checksum"`
	Description      string `json:"description"`
	FolderID         *uint  `json:"folder_id"`
	TagIDs           []uint `json:"tag_ids"`
	Draft            bool   `json:"draft"`
}

// GetFiles 获取文件列表，支持工作流状态过滤
func (a *API) GetFiles(c *gin.Context) {
	filter := service.FileFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
	}
	if page, err := parseIntQuery(c, "page"); err == nil {
		filter.Page = page
	}
	if perPage, err := parseIntQuery(c, "per_page"); err == nil {
		filter.PerPage = perPage
	}

	result, err := a.files.List(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取文件列表失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"files":                  result.Files,
		"total":                  result.Total,
		"total_pages":            result.TotalPages,
		"page":                   result.Page,
		"per_page":               result.PerPage,
		"live_count":             result.LiveCount,
		"pending_changes_count":  result.PendingChangesCount,
		"pending_deletion_count": result.PendingDeletionCount,
	})
}

// GetFile 获取单个文件及其派生的工作流状态
func (a *API) GetFile(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	status, err := a.files.Status(id)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	user, _ := currentUser(c)
	actions, err := a.files.Actions(id, actorOrNil(user))
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"file":                status.File,
		"description_html":    renderMarkdown(status.File.Description),
		"is_draft":            status.File.IsDraft(),
		"is_published":        status.File.IsPublished(),
		"has_pending_changes": status.HasPendingChanges,
		"has_pending_deletion_request": status.File.HasPendingDeletionRequest(),
		"draft_id": status.DraftID,
		"live_id":  status.LiveID,
		"actions":  actions,
	})
}

// GetFileActions 为工作流界面渲染可用操作
func (a *API) GetFileActions(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, _ := currentUser(c)
	actions, err := a.files.Actions(id, actorOrNil(user))
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"actions": actions})
}

// CreateFile 创建新文件记录
func (a *API) CreateFile(c *gin.Context) {
	var data fileInputData
	if !bindJSON(c, &data, "无效的文件数据") {
		return
	}

	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	file, err := a.files.Create(service.FileInput{
		Name:             data.Name,
		OriginalFilename: data.OriginalFilename,
		MimeType:         data.MimeType,
		Size:             data.Size,
		Checksum:         data.Checksum,
		Description:      data.Description,
		FolderID:         data.FolderID,
		TagIDs:           data.TagIDs,
		OwnerID:          user.ID,
		Draft:            data.Draft,
	})
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"file": file})
}

// UpdateFile 更新草稿内容；live 记录只能经由工作流变更
func (a *API) UpdateFile(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var data fileInputData
	if !bindJSON(c, &data, "无效的文件数据") {
		return
	}

	file, err := a.files.Update(id, service.FileInput{
		Name:             data.Name,
		OriginalFilename: data.OriginalFilename,
		MimeType:         data.MimeType,
		Size:             data.Size,
		Checksum:         data.Checksum,
		Description:      data.Description,
		FolderID:         data.FolderID,
		TagIDs:           data.TagIDs,
	})
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"file": file})
}

// DeleteFile 直接删除孤儿草稿
func (a *API) DeleteFile(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.files.Delete(id); err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// CreateDraft 基于 live 文件开启一份草稿
func (a *API) CreateDraft(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	draft, err := a.files.CreateDraft(id)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"file": draft})
}

// DiscardDraft 丢弃文件的草稿
func (a *API) DiscardDraft(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.files.DiscardDraft(id); err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "draft discarded"})
}

// PublishFile 发布草稿，返回权威的 live 记录
func (a *API) PublishFile(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if !a.requirePublisher(c) {
		return
	}

	live, err := a.files.Publish(id, true)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"file": live})
}

// RequestDeletion 对 live 文件发起两段式删除申请
func (a *API) RequestDeletion(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	live, err := a.files.RequestDeletion(id)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"file": live})
}

// DiscardRequestedDeletion 取消删除申请
func (a *API) DiscardRequestedDeletion(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.files.DiscardRequestedDeletion(id); err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deletion request discarded"})
}

// PublishDeletion 确认删除申请并永久移除 live 记录
func (a *API) PublishDeletion(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if !a.requirePublisher(c) {
		return
	}

	if err := a.files.PublishDeletion(id); err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "file deleted"})
}

// CreateShareLink 为文件签发分享令牌
func (a *API) CreateShareLink(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var data struct {
		ExpiresAt *time.Time `json:"expires_at"`
	}
	if !bindJSON(c, &data, "无效的分享参数") {
		return
	}

	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	link, err := a.files.CreateShareLink(id, user.ID, data.ExpiresAt)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"share_link": link})
}

// requirePublisher 检查当前用户是否具备发布类操作的权限。
func (a *API) requirePublisher(c *gin.Context) bool {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return false
	}
	if !user.CanPublishContent() {
		respondError(c, http.StatusForbidden, "publish permission required")
		return false
	}
	return true
}

func actorOrNil(user *db.User) versioning.Actor {
	if user == nil {
		return nil
	}
	return user
}

func renderMarkdown(src string) string {
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(src), &buf); err != nil {
		return ""
	}
	return sanitizer.Sanitize(buf.String())
}
