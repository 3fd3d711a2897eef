package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/lenscraft/internal/config"
	"github.com/lenscraft/internal/db"
	"github.com/lenscraft/internal/handler"
	"github.com/lenscraft/internal/router"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// 生产模式下处理器日志输出 JSON，便于采集
	if cfg.GinMode == gin.ReleaseMode {
		handler.SetLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	}

	// 初始化数据库
	if err := db.Init(cfg.DatabaseDriver, cfg.DatabaseTarget()); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 配置了 ADMIN_EMAIL/ADMIN_PASSWORD 时同步密码登录账号
	if err := db.EnsureAdmin(db.DB, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("failed to ensure admin account: %v", err)
	}
	if cfg.AdminEmail == "" {
		log.Printf("ADMIN_EMAIL is not set; every admin sign-in will be refused")
	}

	api := handler.NewAPI(db.DB, &cfg)

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(api, &cfg)
	log.Printf("listening on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
