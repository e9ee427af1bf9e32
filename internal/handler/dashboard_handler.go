package handler

import (
	"net/http"

	"github.com/filedraft/internal/db"
	"github.com/filedraft/internal/versioning"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Dashboard 汇总后台首页的工作流计数
func (a *API) Dashboard(c *gin.Context) {
	session := sessions.Default(c)
	username := session.Get("username")

	var liveCount, pendingChanges, pendingDeletion, tagCount int64
	a.db.Model(&db.File{}).Scopes(versioning.Live).Count(&liveCount)
	a.db.Model(&db.File{}).Scopes(versioning.PendingChanges(db.FileKind)).Count(&pendingChanges)
	a.db.Model(&db.File{}).Scopes(versioning.PendingDeletion).Count(&pendingDeletion)
	a.db.Model(&db.Tag{}).Count(&tagCount)

	c.JSON(http.StatusOK, gin.H{
		"username":               username,
		"live_count":             liveCount,
		"pending_changes_count":  pendingChanges,
		"pending_deletion_count": pendingDeletion,
		"tag_count":              tagCount,
	})
}
