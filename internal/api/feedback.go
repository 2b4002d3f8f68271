package api

import (
	"context"
	"net/http"
)

func (c *Client) ListFeedback(ctx context.Context) ([]Feedback, error) {
	var out []Feedback
	if err := c.get(ctx, "/feedback", "/feedback", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MyFeedback lists what the caller has submitted.
func (c *Client) MyFeedback(ctx context.Context) ([]Feedback, error) {
	var out []Feedback
	if err := c.get(ctx, "/feedback/my", "/feedback/my", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SubmitFeedback(ctx context.Context, req FeedbackRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/feedback", "/feedback", req, nil)
}

// PendingFeedbackCount returns how many feedback items await review.
func (c *Client) PendingFeedbackCount(ctx context.Context) (int, error) {
	var pc PendingCount
	if err := c.get(ctx, "/feedback/pending-count", "/feedback/pending-count", &pc); err != nil {
		return 0, err
	}
	return pc.Count, nil
}
