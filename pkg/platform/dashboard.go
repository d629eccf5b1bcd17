package platform

import (
	"context"
	"net/url"

	"github.com/reelsmith/dashboard-go/pkg/enums"
)

// Overview fetches the dashboard landing summary.
func (c *Client) Overview(ctx context.Context) (*DashboardOverview, error) {
	var overview DashboardOverview
	if err := c.getJSON(ctx, "/dashboard/overview", "dashboard", &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

// Stats fetches the dashboard statistics block.
func (c *Client) Stats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := c.getJSON(ctx, "/dashboard/stats", "dashboard", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Chart fetches one chart dataset by type.
func (c *Client) Chart(ctx context.Context, chartType enums.ChartType) (*ChartData, error) {
	var data ChartData
	if err := c.getJSON(ctx, "/dashboard/charts/"+url.PathEscape(chartType.String()), "dashboard", &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// DownloadURL builds the direct-navigation URL for a finished artifact. The
// download endpoint lives at the server origin, outside the JSON API prefix,
// because the browser follows it directly instead of going through the
// client.
func (c *Client) DownloadURL(projectID string, fileType enums.FileType) string {
	origin := &url.URL{Scheme: c.baseURL.Scheme, Host: c.baseURL.Host}
	return origin.JoinPath("api", "videos", projectID, "download", fileType.String()).String()
}
