// Package web embeds the HTML templates and static assets served by the site.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

// FuncMap 返回模板中可用的辅助函数。
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"stars": func(n int) string {
			if n < 0 {
				n = 0
			}
			if n > 5 {
				n = 5
			}
			return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
		},
		"add": func(a, b int) int { return a + b },
		"title": func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
	}
}

// Templates 解析全部模板，模板名即文件名，例如 home.html。
func Templates(funcs template.FuncMap) (*template.Template, error) {
	tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// Static 返回 static 目录下的文件系统。
func Static() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
