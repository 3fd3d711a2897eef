// Package schema validates untrusted input against per-entity field declarations.
//
// Declarations are compiled into JSON Schema documents (qri-io/jsonschema) for
// type, range and enum checks; presence of required fields, trimming,
// email syntax, defaulting and integer normalization are applied by the declaration itself.
package schema

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/mail"
	"strings"

	"github.com/qri-io/jsonschema"
)

// Schema 是一个实体类型的完整校验规则。
type Schema struct {
	name     string
	fields   []Field
	partial  bool
	compiled *jsonschema.Schema
}

// New 根据字段声明构造 Schema，声明有误时 panic（规则在启动期静态定义）。
func New(name string, fields ...Field) *Schema {
	s := &Schema{name: name, fields: fields}
	s.compiled = mustCompile(name, s.document())
	return s
}

// Partial 返回更新用的变体：所有字段可选，不补缺省值，但出现的字段仍按同样规则校验。
func (s *Schema) Partial() *Schema {
	clone := *s
	clone.partial = true
	return &clone
}

// Name 返回实体名称。
func (s *Schema) Name() string { return s.name }

// Fields 返回字段声明的副本，顺序与声明一致。
func (s *Schema) Fields() []Field { return append([]Field(nil), s.fields...) }

// Field 按名称查找字段声明。
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.fields {
		if f.name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Defaults 返回创建表单需要预填的缺省值。
func (s *Schema) Defaults() map[string]any {
	out := map[string]any{}
	for _, f := range s.fields {
		if v, ok := f.DefaultValue(); ok {
			out[f.name] = v
		}
	}
	return out
}

// Validate 解析 JSON 请求体并校验。
func (s *Schema) Validate(ctx context.Context, raw []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		trimmed = []byte("{}")
	}

	var input map[string]any
	if err := json.Unmarshal(trimmed, &input); err != nil || input == nil {
		verr := newValidationError()
		verr.AddForm("Request body must be a JSON object")
		return nil, verr
	}
	return s.ValidateMap(ctx, input)
}

// ValidateMap 校验未定型的输入，返回规范化后的记录或 *ValidationError。
// 未声明的字段会被丢弃；字符串去除首尾空白；整数统一为 int64。
func (s *Schema) ValidateMap(ctx context.Context, input map[string]any) (map[string]any, error) {
	verr := newValidationError()
	prepared := make(map[string]any, len(s.fields))

	for _, f := range s.fields {
		value, present := input[f.name]
		if present && value == nil && f.nullable {
			prepared[f.name] = nil
			continue
		}
		if !present || value == nil {
			if s.partial {
				continue
			}
			if f.required {
				verr.Add(f.name, f.missingMessage())
				continue
			}
			if def, ok := f.DefaultValue(); ok {
				prepared[f.name] = def
			}
			continue
		}

		value = trimValue(value)
		if str, ok := value.(string); ok && f.required && f.kind == TypeString && str == "" {
			verr.Add(f.name, f.missingMessage())
			continue
		}
		if str, ok := value.(string); ok && f.email && !validEmail(str) {
			verr.Add(f.name, "Invalid email")
			continue
		}
		prepared[f.name] = value
	}

	data, err := json.Marshal(prepared)
	if err != nil {
		verr.AddForm("Request body could not be encoded")
		return nil, verr
	}

	keyErrs, err := s.compiled.ValidateBytes(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", s.name, err)
	}
	for _, ke := range keyErrs {
		field := fieldFromPointer(ke.PropertyPath)
		if field == "" {
			verr.AddForm(ke.Message)
			continue
		}
		verr.Add(field, ke.Message)
	}

	if !verr.Empty() {
		return nil, verr
	}

	for _, f := range s.fields {
		value, ok := prepared[f.name]
		if !ok || value == nil {
			continue
		}
		prepared[f.name] = normalizeValue(f, value)
	}
	return prepared, nil
}

func (s *Schema) document() map[string]any {
	props := make(map[string]any, len(s.fields))
	for _, f := range s.fields {
		props[f.name] = f.document()
	}
	return map[string]any{
		"title":      s.name,
		"type":       "object",
		"properties": props,
	}
}

func mustCompile(name string, doc map[string]any) *jsonschema.Schema {
	raw, err := json.Marshal(doc)
	if err != nil {
		panic(fmt.Sprintf("schema %s: encode: %v", name, err))
	}
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal(raw, rs); err != nil {
		panic(fmt.Sprintf("schema %s: compile: %v", name, err))
	}
	return rs
}

// fieldFromPointer 取 JSON Pointer 的第一段作为字段名，例如 /specialties/0/icon -> specialties。
func fieldFromPointer(pointer string) string {
	trimmed := strings.TrimLeft(pointer, "#/")
	if trimmed == "" {
		return ""
	}
	if idx := strings.Index(trimmed, "/"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.ReplaceAll(strings.ReplaceAll(trimmed, "~1", "/"), "~0", "~")
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s && addr.Name == ""
}

func trimValue(v any) any {
	switch typed := v.(type) {
	case string:
		return strings.TrimSpace(typed)
	case []string:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = strings.TrimSpace(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = trimValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, item := range typed {
			out[k] = trimValue(item)
		}
		return out
	default:
		return v
	}
}

func normalizeValue(f Field, v any) any {
	switch f.kind {
	case TypeInt:
		if n, ok := toInt64(v); ok {
			return n
		}
	case TypeStringList:
		if items, ok := v.([]any); ok {
			out := make([]string, 0, len(items))
			for _, item := range items {
				if str, ok := item.(string); ok {
					out = append(out, str)
				}
			}
			return out
		}
	case TypeObjectList:
		if items, ok := v.([]any); ok {
			out := make([]map[string]any, 0, len(items))
			for _, item := range items {
				obj, ok := item.(map[string]any)
				if !ok {
					continue
				}
				row := make(map[string]any, len(f.fields))
				for _, sub := range f.fields {
					if val, ok := obj[sub.name]; ok {
						row[sub.name] = normalizeValue(sub, val)
					}
				}
				out = append(out, row)
			}
			return out
		}
	}
	return v
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		if n == math.Trunc(n) {
			return int64(n), true
		}
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
	}
	return 0, false
}
