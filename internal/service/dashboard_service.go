package service

import (
	"context"

	"github.com/lenscraft/internal/db"
	"golang.org/x/sync/errgroup"
)

// RecentSubmissionLimit 仪表盘展示的最近提交数量。
const RecentSubmissionLimit = 5

// DashboardSummary 汇总后台首页需要的计数与最近提交。
type DashboardSummary struct {
	PortfolioCount int64                  `json:"portfolio_count"`
	NewBookings    int64                  `json:"new_bookings"`
	NewContacts    int64                  `json:"new_contacts"`
	RecentBookings []db.BookingSubmission `json:"recent_bookings"`
	RecentContacts []db.ContactSubmission `json:"recent_contacts"`
}

// DashboardService 并发执行仪表盘查询，结果在全部返回后合并。
type DashboardService struct {
	catalog *Catalog
}

// NewDashboardService 构造 DashboardService。
func NewDashboardService(catalog *Catalog) *DashboardService {
	return &DashboardService{catalog: catalog}
}

// Summary 读取仪表盘数据，任一查询失败则整体失败。
func (s *DashboardService) Summary(ctx context.Context) (DashboardSummary, error) {
	var summary DashboardSummary
	newOnly := ListFilter{Status: db.SubmissionStatusNew}
	recent := ListFilter{Status: db.SubmissionStatusNew, Limit: RecentSubmissionLimit}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		summary.PortfolioCount, err = s.catalog.Portfolio.Count(gctx, ListFilter{})
		return err
	})
	g.Go(func() (err error) {
		summary.NewBookings, err = s.catalog.Bookings.Count(gctx, newOnly)
		return err
	})
	g.Go(func() (err error) {
		summary.NewContacts, err = s.catalog.Contacts.Count(gctx, newOnly)
		return err
	})
	g.Go(func() (err error) {
		summary.RecentBookings, err = s.catalog.Bookings.List(gctx, recent)
		return err
	})
	g.Go(func() (err error) {
		summary.RecentContacts, err = s.catalog.Contacts.List(gctx, recent)
		return err
	})

	if err := g.Wait(); err != nil {
		return DashboardSummary{}, err
	}
	return summary, nil
}
