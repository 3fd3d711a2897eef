package service

import (
	"context"
	"errors"
	"strings"

	"github.com/lenscraft/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AccessGate 判断一个已认证身份能否进入后台。只有一个允许的邮箱，未配置时全部拒绝。
type AccessGate struct {
	allowed string
}

// NewAccessGate 以配置中的管理员邮箱构造 AccessGate。
func NewAccessGate(allowedEmail string) *AccessGate {
	return &AccessGate{allowed: normalizeEmail(allowedEmail)}
}

// Allows 判断邮箱是否为允许的操作者。
func (g *AccessGate) Allows(email string) bool {
	if g == nil || g.allowed == "" {
		return false
	}
	return normalizeEmail(email) == g.allowed
}

// Admit 在登录时调用，不在名单中返回 ErrIdentityNotAllowed。
func (g *AccessGate) Admit(email string) (string, error) {
	if !g.Allows(email) {
		return "", ErrIdentityNotAllowed
	}
	return normalizeEmail(email), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AdminAccountService 校验密码登录。
type AdminAccountService struct {
	db *gorm.DB
}

// NewAdminAccountService 构造 AdminAccountService。
func NewAdminAccountService(gdb *gorm.DB) *AdminAccountService {
	return &AdminAccountService{db: gdb}
}

// Authenticate 校验邮箱与密码，失败时统一返回 ErrInvalidCredentials。
func (s *AdminAccountService) Authenticate(ctx context.Context, email, password string) (*db.AdminAccount, error) {
	email = normalizeEmail(email)
	password = db.NormalizePassword(password)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var account db.AdminAccount
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storeError("get", "admin_accounts", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &account, nil
}
