package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestOAuthStateRoundTrip(t *testing.T) {
	signer := NewOAuthStateSigner("state-secret")

	state, err := signer.Sign("/admin/pricing")
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	returnTo, err := signer.Verify(state)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if returnTo != "/admin/pricing" {
		t.Fatalf("unexpected return path %q", returnTo)
	}

	if _, err := NewOAuthStateSigner("other-secret").Verify(state); !errors.Is(err, ErrInvalidOAuthState) {
		t.Fatalf("expected signature mismatch to fail, got %v", err)
	}
	if _, err := signer.Verify(state + "x"); !errors.Is(err, ErrInvalidOAuthState) {
		t.Fatalf("expected tampered state to fail, got %v", err)
	}
}

func TestOAuthStateExpires(t *testing.T) {
	signer := NewOAuthStateSigner("state-secret")
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	signer.now = func() time.Time { return issued }

	state, err := signer.Sign("/admin")
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	signer.now = func() time.Time { return issued.Add(OAuthStateTTL + time.Minute) }
	if _, err := signer.Verify(state); !errors.Is(err, ErrInvalidOAuthState) {
		t.Fatalf("expected expired state to fail, got %v", err)
	}
}

func newGoogleStub(t *testing.T, userinfo string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.Form.Get("code") != "good-code" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"token-123","token_type":"Bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, userinfo)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestGoogleSignInExchange(t *testing.T) {
	server := newGoogleStub(t, `{"email":"Owner@Studio.Example","email_verified":true,"name":"Owner"}`)

	google := NewGoogleSignIn("client-id", "client-secret", "http://localhost:8080/admin/auth/google/callback")
	google.SetEndpoints(server.URL+"/auth", server.URL+"/token", server.URL+"/userinfo")

	authURL, err := url.Parse(google.AuthCodeURL("state-abc"))
	if err != nil {
		t.Fatalf("parse auth url: %v", err)
	}
	query := authURL.Query()
	if query.Get("state") != "state-abc" || query.Get("client_id") != "client-id" {
		t.Fatalf("unexpected auth url %s", authURL)
	}
	if !strings.Contains(query.Get("scope"), "email") {
		t.Fatalf("expected email scope, got %q", query.Get("scope"))
	}

	identity, err := google.Exchange(context.Background(), "good-code")
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}
	if identity.Email != "Owner@Studio.Example" || !identity.EmailVerified {
		t.Fatalf("unexpected identity %+v", identity)
	}

	if _, err := google.Exchange(context.Background(), "bad-code"); err == nil {
		t.Fatalf("expected bad code to fail")
	}
}

func TestGoogleSignInRejectsUnverifiedEmail(t *testing.T) {
	server := newGoogleStub(t, `{"email":"owner@studio.example","email_verified":false}`)

	google := NewGoogleSignIn("client-id", "client-secret", "http://localhost/callback")
	google.SetEndpoints(server.URL+"/auth", server.URL+"/token", server.URL+"/userinfo")

	if _, err := google.Exchange(context.Background(), "good-code"); !errors.Is(err, ErrIdentityNotAllowed) {
		t.Fatalf("expected unverified email to be rejected, got %v", err)
	}
}
