package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "LISTEN_ADDR", "DATABASE_DRIVER", "DATABASE_PATH", "DATABASE_DSN", "SESSION_SECRET",
		"GIN_MODE", "UPLOAD_DIR", "UPLOAD_URL_PATH", "ADMIN_EMAIL", "ADMIN_PASSWORD",
		"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "GOOGLE_REDIRECT_URL", "SITE_BASE_URL", "SEED_FILE",
	} {
		// t.Setenv 负责在测试结束后恢复原值，随后删除变量以便 .env 生效
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	if cfg.ListenAddr != ":8080" {
		t.Fatalf("expected default listen addr, got %q", cfg.ListenAddr)
	}
	if cfg.DatabaseDriver != "sqlite" || cfg.DatabaseTarget() != "data/lenscraft.db" {
		t.Fatalf("unexpected database defaults: %s %s", cfg.DatabaseDriver, cfg.DatabaseTarget())
	}
	if cfg.UploadDir != "public/uploads" || cfg.UploadURLPath != "/uploads" {
		t.Fatalf("unexpected upload defaults: %s %s", cfg.UploadDir, cfg.UploadURLPath)
	}
	if cfg.GoogleSignInEnabled() {
		t.Fatalf("google sign-in should be disabled without credentials")
	}
	if cfg.GoogleRedirectURL != "http://localhost:8080/admin/auth/google/callback" {
		t.Fatalf("unexpected redirect url: %s", cfg.GoogleRedirectURL)
	}
	if cfg.SecureCookies() {
		t.Fatalf("expected insecure cookies for http base url")
	}
}

func TestLoadReadsEnvFileWithoutOverridingEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "PORT=7000\nADMIN_EMAIL= Owner@Studio.Example \nDATABASE_DRIVER=postgres\nDATABASE_DSN=host=db user=app\nUPLOAD_URL_PATH=media/\nSITE_BASE_URL=https://studio.example/\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg := Load(envFile)

	if cfg.Port != "9000" {
		t.Fatalf("expected process env to win, got %s", cfg.Port)
	}
	if cfg.AdminEmail != "owner@studio.example" {
		t.Fatalf("expected normalized admin email, got %q", cfg.AdminEmail)
	}
	if cfg.DatabaseDriver != "postgres" || cfg.DatabaseTarget() != "host=db user=app" {
		t.Fatalf("unexpected database config: %s %q", cfg.DatabaseDriver, cfg.DatabaseTarget())
	}
	if cfg.UploadURLPath != "/media" {
		t.Fatalf("expected normalized upload url path, got %q", cfg.UploadURLPath)
	}
	if !cfg.SecureCookies() {
		t.Fatalf("expected secure cookies for https base url")
	}
	if cfg.GoogleRedirectURL != "https://studio.example/admin/auth/google/callback" {
		t.Fatalf("unexpected redirect url: %s", cfg.GoogleRedirectURL)
	}
}

func TestValidateRejectsDefaultSecretInRelease(t *testing.T) {
	clearEnv(t)

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))
	if cfg.GinMode != "release" || cfg.SessionSecret != DefaultSessionSecret {
		t.Fatalf("unexpected defaults: mode %q secret %q", cfg.GinMode, cfg.SessionSecret)
	}
	if err := cfg.Validate(); !errors.Is(err, ErrInsecureSessionSecret) {
		t.Fatalf("expected insecure secret error, got %v", err)
	}

	cases := []struct {
		name    string
		mode    string
		secret  string
		wantErr bool
	}{
		{name: "release with blank secret", mode: "release", secret: "  ", wantErr: true},
		{name: "release with private secret", mode: "release", secret: "s3cr3t-from-vault"},
		{name: "debug with default secret", mode: "debug", secret: DefaultSessionSecret},
		{name: "test with default secret", mode: "test", secret: DefaultSessionSecret},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := AppConfig{GinMode: tc.mode, SessionSecret: tc.secret}.Validate()
			if tc.wantErr != (err != nil) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidateAcceptsSecretFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", "private-value")

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected configured secret to pass, got %v", err)
	}
}
