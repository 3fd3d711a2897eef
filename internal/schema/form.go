package schema

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// FromForm 把 HTML 表单提交转换为与 JSON 请求体相同的未定型输入，交给 ValidateMap 校验。
//
//   - 复选框缺失视为 false
//   - 整数字段为空时视为未填写，无法解析时原样保留以便报告类型错误
//   - 字符串数组每行一项，忽略空行
//   - 对象数组使用 name[index].sub 命名，整行为空的会被丢弃
func (s *Schema) FromForm(values url.Values) map[string]any {
	out := map[string]any{}
	for _, f := range s.fields {
		switch f.kind {
		case TypeBool:
			out[f.name] = checkboxValue(values.Get(f.name))
		case TypeInt:
			if _, ok := values[f.name]; !ok {
				continue
			}
			raw := strings.TrimSpace(values.Get(f.name))
			if raw == "" {
				continue
			}
			if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
				out[f.name] = n
			} else {
				out[f.name] = raw
			}
		case TypeStringList:
			if _, ok := values[f.name]; !ok {
				continue
			}
			items := []any{}
			for _, line := range strings.Split(values.Get(f.name), "\n") {
				if trimmed := strings.TrimSpace(line); trimmed != "" {
					items = append(items, trimmed)
				}
			}
			out[f.name] = items
		case TypeObjectList:
			if rows, ok := objectRows(f, values); ok {
				out[f.name] = rows
			}
		default:
			if _, ok := values[f.name]; !ok {
				continue
			}
			out[f.name] = values.Get(f.name)
		}
	}
	return out
}

func checkboxValue(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}

func objectRows(f Field, values url.Values) ([]any, bool) {
	prefix := f.name + "["
	indexes := map[int]struct{}{}
	for key := range values {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		rest := strings.TrimPrefix(key, prefix)
		end := strings.Index(rest, "]")
		if end <= 0 {
			continue
		}
		idx, err := strconv.Atoi(rest[:end])
		if err != nil || idx < 0 {
			continue
		}
		indexes[idx] = struct{}{}
	}
	if len(indexes) == 0 {
		return nil, false
	}

	ordered := make([]int, 0, len(indexes))
	for idx := range indexes {
		ordered = append(ordered, idx)
	}
	sort.Ints(ordered)

	rows := make([]any, 0, len(ordered))
	for _, idx := range ordered {
		row := map[string]any{}
		blank := true
		for _, sub := range f.fields {
			key := f.name + "[" + strconv.Itoa(idx) + "]." + sub.name
			value := strings.TrimSpace(values.Get(key))
			if value != "" {
				blank = false
			}
			row[sub.name] = value
		}
		if !blank {
			rows = append(rows, row)
		}
	}
	return rows, true
}
