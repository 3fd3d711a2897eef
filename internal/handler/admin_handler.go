package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/lenscraft/internal/service"
)

const (
	sessionEmailKey = "admin_email"
	loginPath       = "/admin/login"
	adminHome       = "/admin"
)

// currentAdmin 每次请求都重新比对允许名单，名单变更后旧会话立即失效。
func (a *API) currentAdmin(c *gin.Context) (string, bool) {
	session := sessions.Default(c)
	email, _ := session.Get(sessionEmailKey).(string)
	if email == "" || !a.gate.Allows(email) {
		return "", false
	}
	return email, true
}

func (a *API) signIn(c *gin.Context, email string) error {
	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionEmailKey, email)
	return session.Save()
}

// RequireAdminAPI 拒绝未登录的 API 请求，在读取请求体之前执行。
func (a *API) RequireAdminAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := a.currentAdmin(c); !ok {
			respondError(c, http.StatusUnauthorized, msgUnauthorized)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdminPage 把未登录的页面请求重定向到登录页，并保留原始路径。
func (a *API) RequireAdminPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := a.currentAdmin(c); !ok {
			target := loginPath + "?callbackUrl=" + url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}

// safeReturnPath 只允许站内 /admin 路径作为登录后的跳转目标。
func safeReturnPath(raw string) string {
	target := strings.TrimSpace(raw)
	if target == "" || strings.HasPrefix(target, "//") || strings.Contains(target, `\`) {
		return adminHome
	}
	parsed, err := url.Parse(target)
	if err != nil || parsed.IsAbs() || parsed.Host != "" {
		return adminHome
	}
	if parsed.Path != adminHome && !strings.HasPrefix(parsed.Path, adminHome+"/") {
		return adminHome
	}
	if parsed.Path == loginPath || strings.HasPrefix(parsed.Path, "/admin/auth/") {
		return adminHome
	}
	return target
}

var loginErrors = map[string]string{
	"AccessDenied": "This account is not allowed to access the admin.",
	"OAuthFailed":  "Sign-in with Google failed. Please try again.",
	"Credentials":  "Invalid email or password.",
}

// ShowLoginPage 渲染登录页面
func (a *API) ShowLoginPage(c *gin.Context) {
	callback := safeReturnPath(c.Query("callbackUrl"))
	if _, ok := a.currentAdmin(c); ok {
		c.Redirect(http.StatusFound, callback)
		return
	}
	a.renderLogin(c, http.StatusOK, callback, loginErrors[c.Query("error")], "")
}

func (a *API) renderLogin(c *gin.Context, status int, callback, message, email string) {
	c.HTML(status, "admin_login.html", gin.H{
		"title":         "Sign in",
		"callbackUrl":   callback,
		"error":         message,
		"email":         email,
		"googleEnabled": a.google != nil,
	})
}

// Login 处理邮箱密码登录。允许名单在校验密码之前检查。
func (a *API) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	callback := safeReturnPath(c.PostForm("callbackUrl"))

	admitted, err := a.gate.Admit(email)
	if err != nil {
		a.renderLogin(c, http.StatusUnauthorized, callback, loginErrors["AccessDenied"], email)
		return
	}

	if _, err := a.accounts.Authenticate(c.Request.Context(), admitted, password); err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			logger.Error("password sign-in failed", slog.Any("err", err))
		}
		a.renderLogin(c, http.StatusUnauthorized, callback, loginErrors["Credentials"], email)
		return
	}

	if err := a.signIn(c, admitted); err != nil {
		logger.Error("save session failed", slog.Any("err", err))
		a.renderLogin(c, http.StatusInternalServerError, callback, "Could not start a session. Please try again.", email)
		return
	}
	c.Redirect(http.StatusFound, callback)
}

// Logout 处理用户登出
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		logger.Error("clear session failed", slog.Any("err", err))
	}
	c.Redirect(http.StatusFound, loginPath)
}

// StartGoogleSignIn 跳转到 Google 授权页，state 中携带登录后的返回路径。
func (a *API) StartGoogleSignIn(c *gin.Context) {
	if a.google == nil {
		c.Redirect(http.StatusFound, loginPath)
		return
	}
	state, err := a.states.Sign(safeReturnPath(c.Query("callbackUrl")))
	if err != nil {
		logger.Error("sign oauth state failed", slog.Any("err", err))
		c.Redirect(http.StatusFound, loginPath+"?error=OAuthFailed")
		return
	}
	c.Redirect(http.StatusFound, a.google.AuthCodeURL(state))
}

// GoogleCallback 完成授权码交换，只有允许名单中的邮箱能建立会话。
func (a *API) GoogleCallback(c *gin.Context) {
	if a.google == nil {
		c.Redirect(http.StatusFound, loginPath)
		return
	}

	returnTo, err := a.states.Verify(c.Query("state"))
	if err != nil || c.Query("error") != "" || c.Query("code") == "" {
		c.Redirect(http.StatusFound, loginPath+"?error=OAuthFailed")
		return
	}

	identity, err := a.google.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		if errors.Is(err, service.ErrIdentityNotAllowed) {
			c.Redirect(http.StatusFound, loginPath+"?error=AccessDenied")
			return
		}
		logger.Error("google exchange failed", slog.Any("err", err))
		c.Redirect(http.StatusFound, loginPath+"?error=OAuthFailed")
		return
	}

	admitted, err := a.gate.Admit(identity.Email)
	if err != nil {
		logger.Warn("rejected sign-in", slog.String("email", identity.Email))
		c.Redirect(http.StatusFound, loginPath+"?error=AccessDenied")
		return
	}
	if err := a.signIn(c, admitted); err != nil {
		logger.Error("save session failed", slog.Any("err", err))
		c.Redirect(http.StatusFound, loginPath+"?error=OAuthFailed")
		return
	}
	c.Redirect(http.StatusFound, safeReturnPath(returnTo))
}

// ShowDashboard 渲染后台主面板
func (a *API) ShowDashboard(c *gin.Context) {
	summary, err := a.dashboard.Summary(c.Request.Context())
	if err != nil {
		logger.Error("load dashboard failed", slog.Any("err", err))
		a.renderAdmin(c, http.StatusInternalServerError, "admin_dashboard.html", "", gin.H{
			"title": "Dashboard",
			"error": "Could not load the dashboard. Please refresh to try again.",
		})
		return
	}
	a.renderAdmin(c, http.StatusOK, "admin_dashboard.html", "", gin.H{
		"title":   "Dashboard",
		"summary": summary,
	})
}

// GetDashboard 返回仪表盘数据。
func (a *API) GetDashboard(c *gin.Context) {
	summary, err := a.dashboard.Summary(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
