package handler

import (
	"errors"
	"net/http"

	"github.com/filedraft/internal/service"
	"github.com/gin-gonic/gin"
)

// GetFolders 获取文件夹列表
func (a *API) GetFolders(c *gin.Context) {
	folders, err := a.folders.ListAll()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取文件夹列表失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"folders": folders})
}

// CreateFolder 创建新文件夹
func (a *API) CreateFolder(c *gin.Context) {
	var data struct {
		Name     string `json:"name" binding:"required"`
		ParentID *uint  `json:"parent_id"`
	}
	if !bindJSON(c, &data, "文件夹名称不能为空") {
		return
	}

	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	folder, err := a.folders.Create(data.Name, data.ParentID, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrFolderName) {
			respondError(c, http.StatusBadRequest, "文件夹名称不能为空")
			return
		}
		respondError(c, http.StatusInternalServerError, "创建文件夹失败")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"folder": folder})
}

// SetFolderCover 设置文件夹封面文件
func (a *API) SetFolderCover(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var data struct {
		FileID uint `json:"file_id" binding:"required"`
	}
	if !bindJSON(c, &data, "无效的封面参数") {
		return
	}

	folder, err := a.folders.SetCover(id, data.FileID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"folder": folder})
}
