package schema

import (
	"strings"
	"unicode"
)

// FieldType 描述字段的取值类型。
type FieldType int

const (
	TypeString FieldType = iota
	TypeInt
	TypeBool
	TypeStringList
	TypeObjectList
)

// Field 声明一个字段的全部规则。通过 String/Int/... 构造，再用链式方法补充约束。
type Field struct {
	name        string
	label       string
	kind        FieldType
	required    bool
	requiredMsg string
	min, max    *int64
	enum        []string
	email       bool
	nullable    bool
	multiline   bool
	hasDefault  bool
	def         any
	fields      []Field
}

func newField(name string, kind FieldType) Field {
	return Field{name: name, kind: kind}
}

// String 声明文本字段。
func String(name string) Field { return newField(name, TypeString) }

// Text 声明多行文本字段，规则与 String 相同，仅影响表单渲染。
func Text(name string) Field {
	f := newField(name, TypeString)
	f.multiline = true
	return f
}

// Int 声明整数字段。
func Int(name string) Field { return newField(name, TypeInt) }

// Bool 声明布尔字段。
func Bool(name string) Field { return newField(name, TypeBool) }

// StringList 声明有序字符串数组。
func StringList(name string) Field { return newField(name, TypeStringList) }

// ObjectList 声明对象数组，元素结构由 fields 决定。
func ObjectList(name string, fields ...Field) Field {
	f := newField(name, TypeObjectList)
	f.fields = fields
	return f
}

// Required 标记为必填；字符串去除首尾空白后不能为空。
func (f Field) Required(message string) Field {
	f.required = true
	f.requiredMsg = message
	return f
}

// Range 限定整数取值区间（闭区间）。
func (f Field) Range(lo, hi int64) Field {
	f.min = &lo
	f.max = &hi
	return f
}

// Default 设置创建时缺省值。
func (f Field) Default(value any) Field {
	f.hasDefault = true
	f.def = value
	return f
}

// OneOf 限定取值必须属于给定集合。
func (f Field) OneOf(values ...string) Field {
	f.enum = append([]string(nil), values...)
	return f
}

// Email 要求取值为合法邮箱地址（net/mail 语法，不含显示名）。
func (f Field) Email() Field {
	f.email = true
	return f
}

// Nullable 允许显式传入 null。
func (f Field) Nullable() Field {
	f.nullable = true
	return f
}

// Labeled 覆盖表单中显示的名称。
func (f Field) Labeled(label string) Field {
	f.label = label
	return f
}

func (f Field) Name() string      { return f.name }
func (f Field) Type() FieldType   { return f.kind }
func (f Field) IsRequired() bool  { return f.required }
func (f Field) IsMultiline() bool { return f.multiline }
func (f Field) Options() []string { return append([]string(nil), f.enum...) }
func (f Field) Fields() []Field   { return append([]Field(nil), f.fields...) }

// Label 返回展示名称，未设置时由字段名推导，例如 sort_order -> Sort order。
func (f Field) Label() string {
	if f.label != "" {
		return f.label
	}
	words := strings.ReplaceAll(f.name, "_", " ")
	runes := []rune(words)
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// Bounds 返回整数区间，未设置时 ok 为 false。
func (f Field) Bounds() (lo, hi int64, ok bool) {
	if f.min == nil || f.max == nil {
		return 0, 0, false
	}
	return *f.min, *f.max, true
}

// DefaultValue 返回缺省值的副本。
func (f Field) DefaultValue() (any, bool) {
	if !f.hasDefault {
		return nil, false
	}
	return cloneValue(f.def), true
}

func (f Field) missingMessage() string {
	if f.requiredMsg != "" {
		return f.requiredMsg
	}
	return f.Label() + " is required"
}

// document 生成该字段对应的 JSON Schema 片段。
func (f Field) document() map[string]any {
	doc := map[string]any{}
	switch f.kind {
	case TypeString:
		doc["type"] = "string"
		if len(f.enum) > 0 {
			doc["enum"] = f.enum
		}
	case TypeInt:
		doc["type"] = "integer"
		if f.min != nil {
			doc["minimum"] = *f.min
		}
		if f.max != nil {
			doc["maximum"] = *f.max
		}
	case TypeBool:
		doc["type"] = "boolean"
	case TypeStringList:
		doc["type"] = "array"
		doc["items"] = map[string]any{"type": "string"}
	case TypeObjectList:
		props := map[string]any{}
		required := []string{}
		for _, sub := range f.fields {
			props[sub.name] = sub.document()
			required = append(required, sub.name)
		}
		doc["type"] = "array"
		doc["items"] = map[string]any{
			"type":       "object",
			"properties": props,
			"required":   required,
		}
	}
	if f.nullable {
		doc["type"] = []any{doc["type"], "null"}
	}
	return doc
}

func cloneValue(v any) any {
	switch typed := v.(type) {
	case []string:
		return append([]string{}, typed...)
	case []any:
		out := make([]any, len(typed))
		for i := range typed {
			out[i] = cloneValue(typed[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, val := range typed {
			out[k] = cloneValue(val)
		}
		return out
	default:
		return v
	}
}
