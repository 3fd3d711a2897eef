package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/lenscraft/internal/db"
)

func TestRequireAdminPageRedirectsToLogin(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/admin/pricing?sort=name", "", nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	want := "/admin/login?callbackUrl=" + url.QueryEscape("/admin/pricing?sort=name")
	if got := rec.Header().Get("Location"); got != want {
		t.Fatalf("expected redirect to %q, got %q", want, got)
	}
}

func TestSafeReturnPath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "", expected: "/admin"},
		{input: "/admin/bookings?status=new", expected: "/admin/bookings?status=new"},
		{input: "/admin", expected: "/admin"},
		{input: "https://evil.example/admin", expected: "/admin"},
		{input: "//evil.example/admin", expected: "/admin"},
		{input: `/\evil.example`, expected: "/admin"},
		{input: "/", expected: "/admin"},
		{input: "/administrator", expected: "/admin"},
		{input: "/admin/login", expected: "/admin"},
		{input: "/admin/auth/google/callback", expected: "/admin"},
	}

	for _, tt := range tests {
		if got := safeReturnPath(tt.input); got != tt.expected {
			t.Fatalf("safeReturnPath(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func loginRequest(email, password, callback string) *http.Request {
	form := url.Values{"email": {email}, "password": {password}, "callbackUrl": {callback}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestPasswordLogin(t *testing.T) {
	s := newTestServer(t)
	if err := db.EnsureAdmin(s.db, testAdminEmail, "correct horse"); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	if err := db.EnsureAdmin(s.db, "former@example.com", "correct horse"); err != nil {
		t.Fatalf("ensure second account: %v", err)
	}

	wrong := httptest.NewRecorder()
	s.router.ServeHTTP(wrong, loginRequest(testAdminEmail, "battery staple", "/admin/bookings"))
	if wrong.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", wrong.Code)
	}
	if s.html.name != "admin_login.html" || s.html.payload(t)["error"] != loginErrors["Credentials"] {
		t.Fatalf("expected login page with credentials error, got %s %v", s.html.name, s.html.data)
	}

	denied := httptest.NewRecorder()
	s.router.ServeHTTP(denied, loginRequest("former@example.com", "correct horse", ""))
	if denied.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for account outside the allow list, got %d", denied.Code)
	}
	if s.html.payload(t)["error"] != loginErrors["AccessDenied"] {
		t.Fatalf("expected access denied message, got %v", s.html.payload(t)["error"])
	}

	ok := httptest.NewRecorder()
	s.router.ServeHTTP(ok, loginRequest("  OWNER@example.com ", "correct horse", "/admin/bookings"))
	if ok.Code != http.StatusFound {
		t.Fatalf("expected 302 after login, got %d", ok.Code)
	}
	if got := ok.Header().Get("Location"); got != "/admin/bookings" {
		t.Fatalf("expected redirect to callback, got %q", got)
	}
	cookies := ok.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("expected a session cookie")
	}

	// 登录后的会话可以访问后台接口
	req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected session to authorize API, got %d", rec.Code)
	}
}

func TestLoginPageRedirectsSignedInAdmin(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/admin/login?callbackUrl=%2Fadmin%2Fsettings", testAdminEmail, nil)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/admin/settings" {
		t.Fatalf("expected redirect to settings, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	anonymous := s.do(t, http.MethodGet, "/admin/login?error=AccessDenied&callbackUrl=https://evil.example", "", nil)
	if anonymous.Code != http.StatusOK {
		t.Fatalf("expected login page, got %d", anonymous.Code)
	}
	data := s.html.payload(t)
	if data["callbackUrl"] != "/admin" || data["error"] != loginErrors["AccessDenied"] || data["googleEnabled"] != false {
		t.Fatalf("unexpected login page data: %v", data)
	}
}

func TestShowDashboard(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/bookings", "", map[string]any{"name": "Jane", "email": "jane@example.com"})

	rec := s.do(t, http.MethodGet, "/admin", testAdminEmail, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if s.html.name != "admin_dashboard.html" {
		t.Fatalf("unexpected template %s", s.html.name)
	}
	data := s.html.payload(t)
	if data["adminEmail"] != testAdminEmail {
		t.Fatalf("expected admin email in layout data, got %v", data["adminEmail"])
	}
	nav, ok := data["nav"].([]adminNavItem)
	if !ok || len(nav) != 8 {
		t.Fatalf("expected navigation for every kind, got %#v", data["nav"])
	}
}
