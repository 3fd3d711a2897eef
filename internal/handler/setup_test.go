package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/lenscraft/internal/config"
	"github.com/lenscraft/internal/db"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	testAdminEmail  = "owner@example.com"
	testAdminHeader = "X-Test-Admin"
)

// captureHTMLRender 记录最近一次渲染的模板名与数据，不输出任何内容。
type captureHTMLRender struct {
	name string
	data any
}

type stubHTMLInstance struct{}

func (r *captureHTMLRender) Instance(name string, data any) render.Render {
	r.name = name
	r.data = data
	return stubHTMLInstance{}
}

func (stubHTMLInstance) Render(http.ResponseWriter) error {
	return nil
}

func (stubHTMLInstance) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

func (r *captureHTMLRender) payload(t *testing.T) gin.H {
	t.Helper()
	data, ok := r.data.(gin.H)
	if !ok {
		t.Fatalf("expected gin.H template data, got %T", r.data)
	}
	return data
}

func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:handler-test-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := db.Open(db.DriverSQLite, dsn, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return gdb
}

type testServer struct {
	api    *API
	db     *gorm.DB
	router *gin.Engine
	html   *captureHTMLRender
	cfg    *config.AppConfig
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb := setupHandlerTestDB(t)
	cfg := &config.AppConfig{
		SessionSecret: "test-secret",
		UploadDir:     t.TempDir(),
		UploadURLPath: "/uploads",
		AdminEmail:    testAdminEmail,
	}
	api := NewAPI(gdb, cfg)
	html := &captureHTMLRender{}

	r := gin.New()
	r.HTMLRender = html
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte(cfg.SessionSecret))))
	// 测试中通过请求头模拟已登录的会话
	r.Use(func(c *gin.Context) {
		if email := c.GetHeader(testAdminHeader); email != "" {
			sessions.Default(c).Set(sessionEmailKey, email)
		}
		c.Next()
	})
	mountTestRoutes(r, api)

	return &testServer{api: api, db: gdb, router: r, html: html, cfg: cfg}
}

func mountTestRoutes(r *gin.Engine, api *API) {
	r.GET("/", api.ShowHome)
	r.GET("/api/resources/:kind", api.ListPublicResources)
	r.GET("/api/resources/:kind/:id", api.GetPublicResource)
	r.GET("/api/settings", api.GetSettings)
	r.POST("/api/bookings", api.CreateBooking)
	r.POST("/api/contacts", api.CreateContact)

	admin := r.Group("/api/admin", api.RequireAdminAPI())
	admin.GET("/dashboard", api.GetDashboard)
	admin.GET("/resources/:kind", api.ListResources)
	admin.POST("/resources/:kind", api.CreateResource)
	admin.GET("/resources/:kind/:id", api.GetResource)
	admin.PUT("/resources/:kind/:id", api.UpdateResource)
	admin.DELETE("/resources/:kind/:id", api.DeleteResource)
	admin.PUT("/settings/:key", api.UpdateSettings)
	admin.POST("/upload", api.UploadImage)

	r.GET("/admin/login", api.ShowLoginPage)
	r.POST("/admin/login", api.Login)
	r.POST("/admin/logout", api.Logout)
	r.GET("/admin/auth/google", api.StartGoogleSignIn)
	r.GET("/admin/auth/google/callback", api.GoogleCallback)
	pages := r.Group("/admin", api.RequireAdminPage())
	pages.GET("", api.ShowDashboard)
	pages.GET("/settings", api.ShowSettings)
	pages.POST("/settings/:key", api.SubmitSettingsForm)
	pages.GET("/:kind", api.ShowResourceScreen)
	pages.POST("/:kind", api.SubmitCreateForm)
	pages.POST("/:kind/:id", api.SubmitUpdateForm)
	pages.POST("/:kind/:id/delete", api.SubmitDeleteForm)
}

// do 发送 JSON 请求；admin 为空表示匿名访问。
func (s *testServer) do(t *testing.T, method, target, admin string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if admin != "" {
		req.Header.Set(testAdminHeader, admin)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// postForm 以管理员身份提交 HTML 表单。
func (s *testServer) postForm(t *testing.T, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(testAdminHeader, testAdminEmail)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

type errorResponse struct {
	Error   string `json:"error"`
	Details struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
		FormErrors  []string            `json:"formErrors"`
	} `json:"details"`
}
