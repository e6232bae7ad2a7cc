package client

import (
	"context"
	"net/url"

	"pipetrack/api"
	"pipetrack/models"
)

// GetFeedback returns the feedback left on a report, or nil when none
// exists. A success envelope with a null feedback field means "no feedback
// yet", not an error.
func (c *Client) GetFeedback(ctx context.Context, reportID string) (*models.Feedback, error) {
	var resp api.FeedbackResponse
	q := api.GetFeedbackEndpoint + "?report_id=" + url.QueryEscape(reportID)
	if err := c.getJSON(ctx, q, &resp); err != nil {
		return nil, err
	}
	if err := serverChecked(resp.Success, resp.Message); err != nil {
		return nil, err
	}
	return resp.Feedback, nil
}

// CreateFeedback records the one-and-only rating for a resolved report.
// A server rejection here usually means feedback already exists; the
// feedback gate re-queries on that path.
func (c *Client) CreateFeedback(ctx context.Context, args api.CreateFeedbackArgs) error {
	var resp api.StatusResponse
	if err := c.postJSON(ctx, api.CreateFeedbackEndpoint, args, &resp); err != nil {
		return err
	}
	return serverChecked(resp.Success, resp.Message)
}
