package handler

import (
	"strconv"
	"strings"

	"github.com/lenscraft/internal/schema"
)

// 表单中可以通过上传按钮填充的图片字段
var imageFields = map[string]bool{
	"src":           true,
	"image":         true,
	"bg_image":      true,
	"profile_image": true,
}

type formField struct {
	Name     string
	Label    string
	Input    string
	Value    string
	Checked  bool
	Options  []string
	Min      string
	Max      string
	Required bool
	Upload   bool
	Errors   []string
	Rows     [][]formField
}

// buildFormFields 根据字段声明与当前取值生成表单控件。
func buildFormFields(fields []schema.Field, values map[string]any, errs map[string][]string) []formField {
	out := make([]formField, 0, len(fields))
	for _, f := range fields {
		out = append(out, buildFormField(f, f.Name(), values[f.Name()], errs[f.Name()]))
	}
	return out
}

func buildFormField(f schema.Field, name string, value any, errs []string) formField {
	field := formField{
		Name:     name,
		Label:    f.Label(),
		Required: f.IsRequired(),
		Errors:   errs,
	}

	switch f.Type() {
	case schema.TypeBool:
		field.Input = "checkbox"
		field.Checked, _ = value.(bool)
	case schema.TypeInt:
		field.Input = "number"
		field.Value = cellText(value)
		if lo, hi, ok := f.Bounds(); ok {
			field.Min = strconv.FormatInt(lo, 10)
			field.Max = strconv.FormatInt(hi, 10)
		}
	case schema.TypeStringList:
		field.Input = "lines"
		field.Value = strings.Join(listValues(value), "\n")
	case schema.TypeObjectList:
		field.Input = "objects"
		subs := f.Fields()
		rows := objectValues(value)
		rows = append(rows, map[string]any{})
		for i, row := range rows {
			cells := make([]formField, 0, len(subs))
			for _, sub := range subs {
				cellName := name + "[" + strconv.Itoa(i) + "]." + sub.Name()
				cells = append(cells, buildFormField(sub, cellName, row[sub.Name()], nil))
			}
			field.Rows = append(field.Rows, cells)
		}
	default:
		field.Value = cellText(value)
		switch {
		case len(f.Options()) > 0:
			field.Input = "select"
			field.Options = f.Options()
		case f.IsMultiline():
			field.Input = "textarea"
		default:
			field.Input = "text"
			field.Upload = imageFields[f.Name()]
		}
	}
	return field
}

func listValues(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, cellText(item))
		}
		return out
	default:
		return nil
	}
}

func objectValues(value any) []map[string]any {
	switch v := value.(type) {
	case []map[string]any:
		return append([]map[string]any(nil), v...)
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if row, ok := item.(map[string]any); ok {
				out = append(out, row)
			}
		}
		return out
	default:
		return nil
	}
}
