package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound 表示按 id 查找的记录不存在。
	ErrNotFound = errors.New("record not found")
	// ErrUnknownKind 表示 URL 中的资源类型未注册。
	ErrUnknownKind = errors.New("unknown resource kind")
	// ErrUnknownSettingsKey 表示设置键不是 hero/about/footer 之一。
	ErrUnknownSettingsKey = errors.New("unknown settings key")
	// ErrInvalidCredentials 表示邮箱或密码错误。
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrIdentityNotAllowed 表示身份不在允许名单中。
	ErrIdentityNotAllowed = errors.New("identity is not allowed")
)

// StoreError 包装底层存储失败，保留操作名与资源类型便于日志定位。
type StoreError struct {
	Op   string
	Kind string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func storeError(op, kind string, err error) error {
	return &StoreError{Op: op, Kind: kind, Err: err}
}

// UploadRejectedError 表示上传文件未通过检查，Reason 可直接展示给用户。
type UploadRejectedError struct {
	Reason string
}

func (e *UploadRejectedError) Error() string { return e.Reason }

func rejectUpload(reason string) error {
	return &UploadRejectedError{Reason: reason}
}
