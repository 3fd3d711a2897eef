package schema

import (
	"sort"
	"strings"
)

// ValidationError 汇总所有未通过校验的字段，序列化后与前端表单约定的结构一致。
type ValidationError struct {
	FieldErrors map[string][]string `json:"fieldErrors"`
	FormErrors  []string            `json:"formErrors"`
}

func newValidationError() *ValidationError {
	return &ValidationError{FieldErrors: map[string][]string{}, FormErrors: []string{}}
}

// NewValidationError 构造只包含单个字段错误的 ValidationError。
func NewValidationError(field, message string) *ValidationError {
	verr := newValidationError()
	verr.Add(field, message)
	return verr
}

// Add 记录字段错误，重复的消息只保留一条。
func (e *ValidationError) Add(field, message string) {
	for _, existing := range e.FieldErrors[field] {
		if existing == message {
			return
		}
	}
	e.FieldErrors[field] = append(e.FieldErrors[field], message)
}

// AddForm 记录与具体字段无关的错误。
func (e *ValidationError) AddForm(message string) {
	e.FormErrors = append(e.FormErrors, message)
}

// Empty 判断是否没有任何错误。
func (e *ValidationError) Empty() bool {
	return len(e.FieldErrors) == 0 && len(e.FormErrors) == 0
}

// Fields 返回出错字段名（已排序）。
func (e *ValidationError) Fields() []string {
	names := make([]string, 0, len(e.FieldErrors))
	for name := range e.FieldErrors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.FieldErrors)+len(e.FormErrors))
	for _, name := range e.Fields() {
		parts = append(parts, name+": "+strings.Join(e.FieldErrors[name], "; "))
	}
	parts = append(parts, e.FormErrors...)
	return "validation failed: " + strings.Join(parts, ", ")
}
