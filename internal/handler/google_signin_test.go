package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/lenscraft/internal/service"
)

// newGoogleProvider 模拟 Google 的令牌与 userinfo 接口，授权码决定返回的邮箱。
func newGoogleProvider(t *testing.T) *httptest.Server {
	t.Helper()
	emails := map[string]string{
		"owner-code":    "Owner@Example.com",
		"intruder-code": "intruder@example.com",
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, `{"error":"invalid_request"}`, http.StatusBadRequest)
			return
		}
		code := r.Form.Get("code")
		if _, ok := emails[code]; !ok {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":%q,"token_type":"Bearer","expires_in":3600}`, code)
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		email, ok := emails[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")]
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"email":%q,"email_verified":true}`, email)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func withGoogle(t *testing.T, s *testServer) *httptest.Server {
	t.Helper()
	provider := newGoogleProvider(t)
	google := service.NewGoogleSignIn("client-id", "client-secret", "http://example.test/admin/auth/google/callback")
	google.SetEndpoints(provider.URL+"/auth", provider.URL+"/token", provider.URL+"/userinfo")
	s.api.SetGoogleSignIn(google)
	return provider
}

func startGoogle(t *testing.T, s *testServer, callbackURL string) string {
	t.Helper()
	rec := s.do(t, http.MethodGet, "/admin/auth/google?callbackUrl="+url.QueryEscape(callbackURL), "", nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect to provider, got %d", rec.Code)
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse provider redirect: %v", err)
	}
	if !strings.HasSuffix(loc.Path, "/auth") || loc.Query().Get("client_id") != "client-id" {
		t.Fatalf("unexpected provider redirect %q", loc.String())
	}
	state := loc.Query().Get("state")
	if state == "" {
		t.Fatalf("expected signed state in provider redirect")
	}
	return state
}

func TestGoogleSignInEstablishesSession(t *testing.T) {
	s := newTestServer(t)
	withGoogle(t, s)

	state := startGoogle(t, s, "/admin/pricing")
	rec := s.do(t, http.MethodGet, "/admin/auth/google/callback?code=owner-code&state="+url.QueryEscape(state), "", nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect after callback, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/admin/pricing" {
		t.Fatalf("expected return to /admin/pricing, got %q", loc)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("expected session cookie")
	}
	req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	dashboard := httptest.NewRecorder()
	s.router.ServeHTTP(dashboard, req)
	if dashboard.Code != http.StatusOK {
		t.Fatalf("expected Google session to authorize admin API, got %d", dashboard.Code)
	}
}

func TestGoogleSignInRejectsOtherIdentities(t *testing.T) {
	s := newTestServer(t)
	withGoogle(t, s)

	state := startGoogle(t, s, "/admin")
	cases := []struct {
		name  string
		query string
		want  string
	}{
		{name: "not allow-listed", query: "code=intruder-code&state=" + url.QueryEscape(state), want: "/admin/login?error=AccessDenied"},
		{name: "tampered state", query: "code=owner-code&state=" + url.QueryEscape(state+"x"), want: "/admin/login?error=OAuthFailed"},
		{name: "provider error", query: "error=access_denied&state=" + url.QueryEscape(state), want: "/admin/login?error=OAuthFailed"},
		{name: "bad code", query: "code=unknown&state=" + url.QueryEscape(state), want: "/admin/login?error=OAuthFailed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, "/admin/auth/google/callback?"+tc.query, "", nil)
			if rec.Code != http.StatusFound || rec.Header().Get("Location") != tc.want {
				t.Fatalf("expected redirect to %q, got %d %q", tc.want, rec.Code, rec.Header().Get("Location"))
			}
			for _, c := range rec.Result().Cookies() {
				if c.Value != "" && c.MaxAge >= 0 {
					t.Fatalf("expected no session to be issued, got cookie %q", c.Name)
				}
			}
		})
	}
}

func TestGoogleSignInDisabledFallsBackToLogin(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/admin/auth/google", "", nil)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/admin/login" {
		t.Fatalf("expected redirect to login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}
