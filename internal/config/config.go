package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultSessionSecret 仅用于本地开发，release 模式下拒绝使用。
const DefaultSessionSecret = "lenscraft-dev-secret"

// ErrInsecureSessionSecret 表示 release 模式下没有配置 SESSION_SECRET。
var ErrInsecureSessionSecret = errors.New("SESSION_SECRET must be set to a private value in release mode")

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr         string
	Port               string
	DatabaseDriver     string
	DatabasePath       string
	DatabaseDSN        string
	SessionSecret      string
	GinMode            string
	UploadDir          string
	UploadURLPath      string
	AdminEmail         string
	AdminPassword      string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	SiteBaseURL        string
	SeedFile           string
}

// Load 先尝试读取 .env 文件，再从环境变量读取应用配置，并为缺失项提供安全的默认值。
// 已存在的环境变量优先于 .env 中的同名项。
func Load(envFiles ...string) AppConfig {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		// 文件不存在时忽略，生产环境通常直接注入环境变量
		_ = godotenv.Load(file)
	}

	port := env("PORT", "8080")

	listenAddr := env("LISTEN_ADDR", "")
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	driver := strings.ToLower(env("DATABASE_DRIVER", "sqlite"))
	if driver != "postgres" {
		driver = "sqlite"
	}

	siteBaseURL := strings.TrimRight(env("SITE_BASE_URL", "http://localhost:"+port), "/")

	googleRedirect := env("GOOGLE_REDIRECT_URL", "")
	if googleRedirect == "" {
		googleRedirect = siteBaseURL + "/admin/auth/google/callback"
	}

	return AppConfig{
		ListenAddr:         listenAddr,
		Port:               port,
		DatabaseDriver:     driver,
		DatabasePath:       env("DATABASE_PATH", "data/lenscraft.db"),
		DatabaseDSN:        env("DATABASE_DSN", ""),
		SessionSecret:      env("SESSION_SECRET", DefaultSessionSecret),
		GinMode:            env("GIN_MODE", "release"),
		UploadDir:          env("UPLOAD_DIR", "public/uploads"),
		UploadURLPath:      "/" + strings.Trim(env("UPLOAD_URL_PATH", "/uploads"), "/"),
		AdminEmail:         strings.ToLower(env("ADMIN_EMAIL", "")),
		AdminPassword:      env("ADMIN_PASSWORD", ""),
		GoogleClientID:     env("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: env("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  googleRedirect,
		SiteBaseURL:        siteBaseURL,
		SeedFile:           env("SEED_FILE", "seed.yaml"),
	}
}

// Validate 检查启动前必须满足的配置：release 模式下 SessionSecret 不能为空或缺省值。
func (c AppConfig) Validate() error {
	if c.GinMode != "release" {
		return nil
	}
	secret := strings.TrimSpace(c.SessionSecret)
	if secret == "" || secret == DefaultSessionSecret {
		return ErrInsecureSessionSecret
	}
	return nil
}

// DatabaseTarget 返回当前驱动对应的连接串：sqlite 使用文件路径，postgres 使用 DSN。
func (c AppConfig) DatabaseTarget() string {
	if c.DatabaseDriver == "postgres" {
		return c.DatabaseDSN
	}
	return c.DatabasePath
}

// GoogleSignInEnabled 判断是否配置了 Google 登录。
func (c AppConfig) GoogleSignInEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// SecureCookies 在站点通过 https 访问时为会话 cookie 打开 Secure 标记。
func (c AppConfig) SecureCookies() bool {
	return strings.HasPrefix(c.SiteBaseURL, "https://")
}

func env(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
