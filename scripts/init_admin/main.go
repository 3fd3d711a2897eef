package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/lenscraft/internal/config"
	"github.com/lenscraft/internal/db"
)

// 创建或重置密码登录用的管理员账号。邮箱仍需与 ADMIN_EMAIL 一致才能登录。
func main() {
	cfg := config.Load()

	var email, password string
	flag.StringVar(&email, "email", cfg.AdminEmail, "admin email (defaults to ADMIN_EMAIL)")
	flag.StringVar(&password, "password", cfg.AdminPassword, "admin password (defaults to ADMIN_PASSWORD)")
	flag.Parse()

	if email == "" || password == "" {
		log.Fatal("email and password are required")
	}

	// 初始化数据库
	if err := db.Init(cfg.DatabaseDriver, cfg.DatabaseTarget()); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	if err := db.EnsureAdmin(db.DB, email, password); err != nil {
		log.Fatal("创建管理员失败:", err)
	}

	fmt.Println("管理员账号已就绪:", email)
	if cfg.AdminEmail != "" && cfg.AdminEmail != strings.ToLower(strings.TrimSpace(email)) {
		fmt.Println("注意: ADMIN_EMAIL 为", cfg.AdminEmail, "，该账号目前无法登录")
	}
}
