// Package dashboard serves the aggregate views of the overview screen.
package dashboard

import (
	"context"

	"github.com/reelsmith/dashboard-go/internal/querycache"
	"github.com/reelsmith/dashboard-go/internal/querykeys"
	"github.com/reelsmith/dashboard-go/pkg/enums"
	"github.com/reelsmith/dashboard-go/pkg/platform"
)

type Service struct {
	client *platform.Client
	cache  *querycache.Cache
}

func NewService(client *platform.Client, cache *querycache.Cache) *Service {
	return &Service{client: client, cache: cache}
}

func (s *Service) Overview(ctx context.Context) (*platform.DashboardOverview, error) {
	return querycache.Fetch(ctx, s.cache, querykeys.DashboardOverview(), func(ctx context.Context) (*platform.DashboardOverview, error) {
		return s.client.Overview(ctx)
	})
}

func (s *Service) Stats(ctx context.Context) (*platform.DashboardStats, error) {
	return querycache.Fetch(ctx, s.cache, querykeys.DashboardStats(), func(ctx context.Context) (*platform.DashboardStats, error) {
		return s.client.Stats(ctx)
	})
}

func (s *Service) Chart(ctx context.Context, chartType enums.ChartType) (*platform.ChartData, error) {
	return querycache.Fetch(ctx, s.cache, querykeys.DashboardChart(chartType), func(ctx context.Context) (*platform.ChartData, error) {
		return s.client.Chart(ctx, chartType)
	})
}

// DownloadURL points at the backend's file download endpoint for a finished
// artifact. The gateway redirects to it rather than proxying the bytes.
func (s *Service) DownloadURL(projectID string, fileType enums.FileType) string {
	return s.client.DownloadURL(projectID, fileType)
}
