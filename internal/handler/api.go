package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/lenscraft/internal/config"
	"github.com/lenscraft/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	catalog   *service.Catalog
	settings  *service.SettingsService
	dashboard *service.DashboardService
	content   *service.ContentService
	uploads   *service.UploadService
	accounts  *service.AdminAccountService
	gate      *service.AccessGate
	states    *service.OAuthStateSigner
	google    *service.GoogleSignIn
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, cfg *config.AppConfig) *API {
	catalog := service.NewCatalog(gdb)
	settings := service.NewSettingsService(gdb)

	api := &API{
		catalog:   catalog,
		settings:  settings,
		dashboard: service.NewDashboardService(catalog),
		content:   service.NewContentService(catalog, settings),
		uploads:   service.NewUploadService(cfg.UploadDir, cfg.UploadURLPath),
		accounts:  service.NewAdminAccountService(gdb),
		gate:      service.NewAccessGate(cfg.AdminEmail),
		states:    service.NewOAuthStateSigner(cfg.SessionSecret),
	}
	if cfg.GoogleSignInEnabled() {
		api.google = service.NewGoogleSignIn(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	}
	return api
}

// Catalog exposes the resource repositories.
func (a *API) Catalog() *service.Catalog {
	return a.catalog
}

// SetGoogleSignIn replaces the Google sign-in client; nil disables it.
func (a *API) SetGoogleSignIn(g *service.GoogleSignIn) {
	a.google = g
}

type adminNavItem struct {
	Name   string
	Label  string
	Active bool
}

func (a *API) adminNav(active string) []adminNavItem {
	kinds := a.catalog.Kinds()
	items := make([]adminNavItem, 0, len(kinds))
	for _, kind := range kinds {
		items = append(items, adminNavItem{Name: kind.Name, Label: kind.Label, Active: kind.Name == active})
	}
	return items
}

// renderAdmin 为后台页面附加导航与当前登录邮箱。
func (a *API) renderAdmin(c *gin.Context, status int, template, active string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}
	if _, exists := payload["nav"]; !exists {
		payload["nav"] = a.adminNav(active)
	}
	if _, exists := payload["active"]; !exists {
		payload["active"] = active
	}
	if email, ok := a.currentAdmin(c); ok {
		payload["adminEmail"] = email
	}
	c.HTML(status, template, payload)
}
