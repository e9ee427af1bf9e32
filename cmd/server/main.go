package main

import (
	"log"

	"github.com/filedraft/internal/config"
	"github.com/filedraft/internal/db"
	"github.com/filedraft/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env 缺失时静默回退到进程环境变量
	_ = godotenv.Load()
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 初始管理账号具备发布权限
	if err := db.EnsureUser(cfg.SuperRootUserName, cfg.SuperRootPassword, true); err != nil {
		log.Fatalf("failed to ensure root user: %v", err)
	}

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(cfg)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
