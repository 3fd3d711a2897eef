package handler

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// 单元格展示格式
const (
	formatText    = ""
	formatImage   = "image"
	formatBool    = "bool"
	formatDate    = "date"
	formatList    = "list"
	formatStars   = "stars"
	formatPercent = "percent"
	formatStatus  = "status"
	formatExcerpt = "excerpt"
)

type column struct {
	Field    string
	Label    string
	Format   string
	Sortable bool
}

type sortState struct {
	Column string
	Desc   bool
}

type tableHeader struct {
	Label    string
	Href     string
	Sortable bool
	Active   bool
	Desc     bool
}

type tableCell struct {
	Text   string
	Format string
}

type tableRow struct {
	ID         string
	Href       string
	DeleteHref string
	Cells      []tableCell
}

type tableView struct {
	Headers []tableHeader
	Rows    []tableRow
}

// parseSort 读取 ?sort=&dir=，只接受可排序的列。
func parseSort(c *gin.Context, columns []column) sortState {
	name := c.Query("sort")
	for _, col := range columns {
		if col.Sortable && col.Field == name {
			return sortState{Column: name, Desc: strings.EqualFold(c.Query("dir"), "desc")}
		}
	}
	return sortState{}
}

// toggle 返回点击某列后的排序状态：当前列切换方向，新列从升序开始。
func (s sortState) toggle(column string) sortState {
	if s.Column == column {
		return sortState{Column: column, Desc: !s.Desc}
	}
	return sortState{Column: column}
}

func (s sortState) apply(q url.Values) {
	q.Del("sort")
	q.Del("dir")
	if s.Column == "" {
		return
	}
	q.Set("sort", s.Column)
	if s.Desc {
		q.Set("dir", "desc")
	} else {
		q.Set("dir", "asc")
	}
}

// sortRows 稳定排序，未指定列时保持仓储返回的顺序。
func sortRows(rows []map[string]any, s sortState) {
	if s.Column == "" {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		cmp := compareCells(rows[i][s.Column], rows[j][s.Column])
		if s.Desc {
			return cmp > 0
		}
		return cmp < 0
	})
}

// compareCells 数字按数值比较，布尔值 false 在前，其余按不区分大小写的文本比较。
func compareCells(a, b any) int {
	if x, ok := a.(float64); ok {
		if y, ok := b.(float64); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			default:
				return 0
			}
		}
	}
	if x, ok := a.(bool); ok {
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			default:
				return 1
			}
		}
	}
	return strings.Compare(strings.ToLower(cellText(a)), strings.ToLower(cellText(b)))
}

func buildTable(kind string, columns []column, rows []map[string]any, current sortState, query url.Values) tableView {
	view := tableView{}
	for _, col := range columns {
		header := tableHeader{Label: col.Label, Sortable: col.Sortable}
		if col.Sortable {
			q := cloneValues(query)
			current.toggle(col.Field).apply(q)
			header.Href = "/admin/" + kind + "?" + q.Encode()
			header.Active = current.Column == col.Field
			header.Desc = header.Active && current.Desc
		}
		view.Headers = append(view.Headers, header)
	}

	for _, row := range rows {
		id := cellText(row["id"])
		q := cloneValues(query)
		q.Set("mode", "edit")
		q.Set("id", id)
		tr := tableRow{ID: id, Href: "/admin/" + kind + "?" + q.Encode()}
		q.Set("mode", "delete")
		tr.DeleteHref = "/admin/" + kind + "?" + q.Encode()
		for _, col := range columns {
			tr.Cells = append(tr.Cells, tableCell{Text: formatCell(col.Format, row[col.Field]), Format: col.Format})
		}
		view.Rows = append(view.Rows, tr)
	}
	return view
}

func formatCell(format string, value any) string {
	switch format {
	case formatBool:
		if b, _ := value.(bool); b {
			return "Yes"
		}
		return ""
	case formatDate:
		raw := cellText(value)
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			return t.Local().Format("Jan 2, 2006 15:04")
		}
		return raw
	case formatList:
		items, _ := value.([]any)
		if len(items) == 1 {
			return "1 item"
		}
		return fmt.Sprintf("%d items", len(items))
	case formatStars:
		n, _ := value.(float64)
		stars := int(n)
		if stars < 0 {
			stars = 0
		}
		if stars > 5 {
			stars = 5
		}
		return strings.Repeat("★", stars) + strings.Repeat("☆", 5-stars)
	case formatPercent:
		return cellText(value) + "%"
	case formatExcerpt:
		text := cellText(value)
		if runes := []rune(text); len(runes) > 80 {
			return string(runes[:80]) + "…"
		}
		return text
	default:
		return cellText(value)
	}
}

func cellText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func cloneValues(values url.Values) url.Values {
	out := url.Values{}
	for key, vals := range values {
		out[key] = append([]string(nil), vals...)
	}
	return out
}
