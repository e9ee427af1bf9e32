package router

import (
	"github.com/filedraft/internal/config"
	"github.com/filedraft/internal/db"
	"github.com/filedraft/internal/handler"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(cfg config.AppConfig) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("filedraft_session", store))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api := handler.NewAPI(db.DB)

	// 后台管理路由
	admin := r.Group("/admin")
	{
		admin.POST("/login", handler.Login)
		admin.GET("/logout", handler.Logout)

		// 需要认证的后台路由
		auth := admin.Group("/api")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("/dashboard", api.Dashboard)

			auth.GET("/files", api.GetFiles)
			auth.POST("/files", api.CreateFile)
			auth.GET("/files/:id", api.GetFile)
			auth.PUT("/files/:id", api.UpdateFile)
			auth.DELETE("/files/:id", api.DeleteFile)

			// 工作流操作，路径后缀与 available_actions 的名称一致
			auth.GET("/files/:id/actions", api.GetFileActions)
			auth.POST("/files/:id/create_draft", api.CreateDraft)
			auth.POST("/files/:id/discard_draft", api.DiscardDraft)
			auth.POST("/files/:id/publish", api.PublishFile)
			auth.POST("/files/:id/request_deletion", api.RequestDeletion)
			auth.POST("/files/:id/discard_requested_deletion", api.DiscardRequestedDeletion)
			auth.POST("/files/:id/publish_deletion", api.PublishDeletion)

			auth.POST("/files/:id/share_links", api.CreateShareLink)

			auth.GET("/folders", api.GetFolders)
			auth.POST("/folders", api.CreateFolder)
			auth.PUT("/folders/:id/cover", api.SetFolderCover)

			auth.GET("/tags", api.GetTags)
			auth.POST("/tags", api.CreateTag)
			auth.DELETE("/tags/:id", api.DeleteTag)
		}
	}

	return r
}
