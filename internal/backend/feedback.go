package backend

import (
	"context"
	"net/http"

	"github.com/example/campus-events/internal/domain"
)

// ListFeedback returns every feedback entry.
func (c *Client) ListFeedback(ctx context.Context) ([]domain.Feedback, error) {
	var payload []feedbackDTO
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/Feedback"}, &payload); err != nil {
		return nil, err
	}
	return convert(payload, feedbackDTO.toDomain), nil
}

// SubmitFeedback records a rating for an event.
func (c *Client) SubmitFeedback(ctx context.Context, feedback domain.Feedback) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/Feedback",
		body: feedbackRequest{
			EventID: flexID(feedback.EventID),
			UserID:  flexID(feedback.UserID),
			Rating:  feedback.Rating,
			Comment: feedback.Comment,
		},
	}, nil)
}
