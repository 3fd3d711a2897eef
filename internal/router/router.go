package router

import (
	"html/template"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/lenscraft/internal/config"
	"github.com/lenscraft/internal/handler"
	"github.com/lenscraft/web"
)

const sessionName = "lenscraft_session"

// sessionMaxAge 后台会话有效期（秒）
const sessionMaxAge = 7 * 24 * 60 * 60

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, cfg *config.AppConfig) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.SecureCookies(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	// 模板与静态资源均已嵌入二进制
	r.SetHTMLTemplate(template.Must(web.Templates(web.FuncMap())))
	r.StaticFS("/static", http.FS(web.Static()))
	r.Static(cfg.UploadURLPath, cfg.UploadDir)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.GET("/", api.ShowHome)

	// 公开接口
	public := r.Group("/api")
	{
		public.GET("/resources/:kind", api.ListPublicResources)
		public.GET("/resources/:kind/:id", api.GetPublicResource)
		public.GET("/settings", api.GetSettings)
		public.POST("/bookings", api.CreateBooking)
		public.POST("/contacts", api.CreateContact)
	}

	// 后台接口，未登录返回 401
	adminAPI := r.Group("/api/admin")
	adminAPI.Use(api.RequireAdminAPI())
	{
		adminAPI.GET("/dashboard", api.GetDashboard)

		adminAPI.GET("/resources/:kind", api.ListResources)
		adminAPI.POST("/resources/:kind", api.CreateResource)
		adminAPI.GET("/resources/:kind/:id", api.GetResource)
		adminAPI.PUT("/resources/:kind/:id", api.UpdateResource)
		adminAPI.DELETE("/resources/:kind/:id", api.DeleteResource)

		adminAPI.GET("/settings", api.GetSettings)
		adminAPI.PUT("/settings/:key", api.UpdateSettings)

		adminAPI.POST("/upload", api.UploadImage)
	}

	// 后台页面
	admin := r.Group("/admin")
	{
		admin.GET("/login", api.ShowLoginPage)
		admin.POST("/login", api.Login)
		admin.POST("/logout", api.Logout)
		admin.GET("/auth/google", api.StartGoogleSignIn)
		admin.GET("/auth/google/callback", api.GoogleCallback)

		// 需要认证的后台路由
		auth := admin.Group("")
		auth.Use(api.RequireAdminPage())
		{
			auth.GET("", api.ShowDashboard)
			auth.GET("/settings", api.ShowSettings)
			auth.POST("/settings/:key", api.SubmitSettingsForm)

			auth.GET("/:kind", api.ShowResourceScreen)
			auth.POST("/:kind", api.SubmitCreateForm)
			auth.POST("/:kind/:id", api.SubmitUpdateForm)
			auth.POST("/:kind/:id/delete", api.SubmitDeleteForm)
		}
	}

	return r
}
