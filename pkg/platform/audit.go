package platform

import (
	"context"
	"net/url"
)

// ListAuditRecords fetches service exchange records matching the filters.
func (c *Client) ListAuditRecords(ctx context.Context, filters Filters) ([]AuditRecord, error) {
	var records []AuditRecord
	if err := c.getJSON(ctx, listEndpoint("/api-responses", filters), "api-responses", &records); err != nil {
		return nil, err
	}
	return records, nil
}

// GetAuditRecord fetches one record by id.
func (c *Client) GetAuditRecord(ctx context.Context, id string) (*AuditRecord, error) {
	var record AuditRecord
	if err := c.getJSON(ctx, "/api-responses/"+url.PathEscape(id), "api-responses", &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListAuditRecordsByProject fetches the records attached to one project.
func (c *Client) ListAuditRecordsByProject(ctx context.Context, projectID string) ([]AuditRecord, error) {
	var records []AuditRecord
	if err := c.getJSON(ctx, "/video-projects/"+url.PathEscape(projectID)+"/api-responses", "api-responses", &records); err != nil {
		return nil, err
	}
	return records, nil
}
