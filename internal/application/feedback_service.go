package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/example/campus-events/internal/domain"
	"github.com/example/campus-events/internal/session"
)

// FeedbackBackend exposes the feedback endpoints of the backend.
type FeedbackBackend interface {
	ListFeedback(ctx context.Context) ([]domain.Feedback, error)
	SubmitFeedback(ctx context.Context, feedback domain.Feedback) error
}

const maxCommentLength = 1000

// FeedbackService collects and summarises event ratings.
type FeedbackService struct {
	feedback FeedbackBackend
	logger   *slog.Logger
}

// NewFeedbackService constructs a feedback service.
func NewFeedbackService(feedback FeedbackBackend) *FeedbackService {
	return NewFeedbackServiceWithLogger(feedback, nil)
}

// NewFeedbackServiceWithLogger constructs a feedback service with a specified logger.
func NewFeedbackServiceWithLogger(feedback FeedbackBackend, logger *slog.Logger) *FeedbackService {
	return &FeedbackService{feedback: feedback, logger: defaultLogger(logger)}
}

func (s *FeedbackService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "FeedbackService", operation, attrs...)
}

// Submit records the principal's rating of an event.
func (s *FeedbackService) Submit(ctx context.Context, principal Principal, input FeedbackInput) (err error) {
	if s == nil || s.feedback == nil {
		return fmt.Errorf("FeedbackService is not configured")
	}
	logger := s.loggerWith(ctx, "Submit", "principal_id", principal.UserID, "event_id", input.EventID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to submit feedback", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "feedback submitted")
	}()

	if !principal.Is(session.RoleStudent) {
		err = ErrUnauthorized
		return
	}

	feedback := domain.Feedback{
		EventID: strings.TrimSpace(input.EventID),
		UserID:  principal.UserID,
		Rating:  input.Rating,
		Comment: strings.TrimSpace(input.Comment),
	}
	vErr := &ValidationError{}
	if feedback.EventID == "" {
		vErr.add("event_id", "Choose an event.")
	}
	if feedback.Rating < 1 || feedback.Rating > 5 {
		vErr.add("rating", "Rating must be between 1 and 5.")
	}
	if utf8.RuneCountInString(feedback.Comment) > maxCommentLength {
		vErr.add("comment", fmt.Sprintf("Comment must be at most %d characters.", maxCommentLength))
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}
	return mapBackendError(s.feedback.SubmitFeedback(ctx, feedback))
}

// List returns feedback, optionally for one event, with its average rating.
func (s *FeedbackService) List(ctx context.Context, principal Principal, eventID string) (summary FeedbackSummary, err error) {
	if s == nil || s.feedback == nil {
		err = fmt.Errorf("FeedbackService is not configured")
		return
	}
	if !principal.Is(session.RoleAdmin, session.RoleOrganizer) {
		err = ErrUnauthorized
		return
	}

	var all []domain.Feedback
	all, err = s.feedback.ListFeedback(ctx)
	if err != nil {
		err = mapBackendError(err)
		s.loggerWith(ctx, "List", "principal_id", principal.UserID).
			ErrorContext(ctx, "failed to list feedback", "error", err, "error_kind", ErrorKind(err))
		return
	}

	eventID = strings.TrimSpace(eventID)
	summary.Items = make([]domain.Feedback, 0, len(all))
	total := 0
	for _, item := range all {
		if eventID != "" && item.EventID != eventID {
			continue
		}
		summary.Items = append(summary.Items, item)
		total += item.Rating
	}
	summary.Count = len(summary.Items)
	if summary.Count > 0 {
		summary.Average = float64(total) / float64(summary.Count)
	}
	return
}
