package service

import (
	"context"

	"github.com/lenscraft/internal/db"
	"golang.org/x/sync/errgroup"
)

// SiteContent 是首页渲染需要的全部已发布内容。
type SiteContent struct {
	Settings     SiteSettings
	Portfolio    []db.PortfolioItem
	Pricing      []db.PricingPackage
	Testimonials []db.Testimonial
	Skills       []db.Skill
	Equipment    []db.Equipment
	Awards       []db.Award
}

// Categories 返回作品集中出现过的分类，保持首次出现的顺序。
func (c SiteContent) Categories() []string {
	seen := map[string]struct{}{}
	categories := []string{}
	for _, item := range c.Portfolio {
		if _, ok := seen[item.Category]; ok || item.Category == "" {
			continue
		}
		seen[item.Category] = struct{}{}
		categories = append(categories, item.Category)
	}
	return categories
}

// ContentService 为公开首页加载内容。
type ContentService struct {
	catalog  *Catalog
	settings *SettingsService
}

// NewContentService 构造 ContentService。
func NewContentService(catalog *Catalog, settings *SettingsService) *ContentService {
	return &ContentService{catalog: catalog, settings: settings}
}

// Load 并发读取各类内容。
func (s *ContentService) Load(ctx context.Context) (SiteContent, error) {
	var content SiteContent
	all := ListFilter{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		content.Settings, err = s.settings.Get(gctx)
		return err
	})
	g.Go(func() (err error) {
		content.Portfolio, err = s.catalog.Portfolio.List(gctx, all)
		return err
	})
	g.Go(func() (err error) {
		content.Pricing, err = s.catalog.Pricing.List(gctx, all)
		return err
	})
	g.Go(func() (err error) {
		content.Testimonials, err = s.catalog.Testimonials.List(gctx, all)
		return err
	})
	g.Go(func() (err error) {
		content.Skills, err = s.catalog.Skills.List(gctx, all)
		return err
	})
	g.Go(func() (err error) {
		content.Equipment, err = s.catalog.Equipment.List(gctx, all)
		return err
	})
	g.Go(func() (err error) {
		content.Awards, err = s.catalog.Awards.List(gctx, all)
		return err
	})

	if err := g.Wait(); err != nil {
		return SiteContent{}, err
	}
	return content, nil
}
