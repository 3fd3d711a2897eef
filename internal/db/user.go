package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminAccount 保存管理员的密码登录凭据。
// 是否允许登录仍由 ADMIN_EMAIL 白名单决定，账号本身不授予权限。
type AdminAccount struct {
	gorm.Model
	Email    string `gorm:"size:255;uniqueIndex;not null"`
	Password string `gorm:"not null"`
}

// TableName 返回自定义表名
func (AdminAccount) TableName() string {
	return "admin_accounts"
}

// NormalizePassword 去除密码首尾空白。设置与登录两条路径必须使用同一规则。
func NormalizePassword(password string) string {
	return strings.TrimSpace(password)
}

// EnsureAdmin 存在性检查：若邮箱与密码均非空，则创建或更新一个 bcrypt 哈希的管理员账号。
func EnsureAdmin(gdb *gorm.DB, email, password string) error {
	trimmedEmail := strings.ToLower(strings.TrimSpace(email))
	trimmedPassword := NormalizePassword(password)
	if trimmedEmail == "" || trimmedPassword == "" {
		return nil
	}

	if gdb == nil {
		return errors.New("database not initialized")
	}

	var existing AdminAccount
	err := gdb.Where("email = ?", trimmedEmail).First(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	// 密码未变化时不重写哈希
	if err == nil && bcrypt.CompareHashAndPassword([]byte(existing.Password), []byte(trimmedPassword)) == nil {
		return nil
	}

	hashed, hashErr := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
	if hashErr != nil {
		return hashErr
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return gdb.Create(&AdminAccount{Email: trimmedEmail, Password: string(hashed)}).Error
	}
	return gdb.Model(&existing).Update("password", string(hashed)).Error
}
