package handler

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// ShowHome 渲染公开首页
func (a *API) ShowHome(c *gin.Context) {
	content, err := a.content.Load(c.Request.Context())
	if err != nil {
		logger.Error("load home content failed", slog.Any("err", err))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"title":   "Temporarily unavailable",
			"message": "The site could not be loaded. Please try again in a moment.",
		})
		return
	}

	about := content.Settings.About
	bios := make([]template.HTML, 0, 2)
	for _, paragraph := range []string{about.Bio1, about.Bio2} {
		if strings.TrimSpace(paragraph) == "" {
			continue
		}
		rendered, err := renderMarkdown(paragraph)
		if err != nil {
			logger.Warn("render bio failed", slog.Any("err", err))
			continue
		}
		bios = append(bios, rendered)
	}

	brand := strings.TrimSpace(content.Settings.Footer.BrandName)
	if brand == "" {
		brand = strings.TrimSpace(about.Name)
	}

	c.HTML(http.StatusOK, "home.html", gin.H{
		"title":        brand,
		"brand":        brand,
		"settings":     content.Settings,
		"bios":         bios,
		"portfolio":    content.Portfolio,
		"categories":   content.Categories(),
		"pricing":      content.Pricing,
		"testimonials": content.Testimonials,
		"skills":       content.Skills,
		"equipment":    content.Equipment,
		"awards":       content.Awards,
		"year":         time.Now().Year(),
	})
}

func renderMarkdown(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	safe := sanitizer.SanitizeBytes(buf.Bytes())
	return template.HTML(safe), nil
}
