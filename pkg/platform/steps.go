package platform

import (
	"context"
	"net/http"
	"net/url"
)

// ListSteps fetches processing steps matching the optional filters.
func (c *Client) ListSteps(ctx context.Context, filters Filters) ([]ProcessingStep, error) {
	var steps []ProcessingStep
	if err := c.getJSON(ctx, listEndpoint("/processing-steps", filters), "processing-steps", &steps); err != nil {
		return nil, err
	}
	return steps, nil
}

// GetStep fetches one processing step by id.
func (c *Client) GetStep(ctx context.Context, id string) (*ProcessingStep, error) {
	var step ProcessingStep
	if err := c.getJSON(ctx, "/processing-steps/"+url.PathEscape(id), "processing-steps", &step); err != nil {
		return nil, err
	}
	return &step, nil
}

// ListStepsByProject fetches the steps belonging to one project.
func (c *Client) ListStepsByProject(ctx context.Context, projectID string) ([]ProcessingStep, error) {
	var steps []ProcessingStep
	if err := c.getJSON(ctx, "/video-projects/"+url.PathEscape(projectID)+"/processing-steps", "processing-steps", &steps); err != nil {
		return nil, err
	}
	return steps, nil
}

// UpdateStep applies a partial update to a processing step.
func (c *Client) UpdateStep(ctx context.Context, id string, input UpdateStepInput) (*ProcessingStep, error) {
	var step ProcessingStep
	if err := c.sendJSON(ctx, http.MethodPut, "/processing-steps/"+url.PathEscape(id), "processing-steps", input, &step); err != nil {
		return nil, err
	}
	return &step, nil
}
