package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketbay/shopfront/pkg"
	"github.com/marketbay/shopfront/pkg/repositories"
	pkgviews "github.com/marketbay/shopfront/pkg/views"
	"go.uber.org/zap"
)

// ModerationService covers the remaining back-office screens: the customer
// list and feedback moderation.
type ModerationService interface {
	ListUsers(ctx context.Context, traceID string, limit, offset int) ([]pkgviews.UserView, error)
	ListFeedback(ctx context.Context, traceID string, limit, offset int) ([]pkgviews.FeedbackView, error)
	DeleteFeedback(ctx context.Context, traceID string, feedbackID uuid.UUID) error
}

type ModerationServiceImpl struct {
	logger       *zap.Logger
	userRepo     repositories.UserRepository
	feedbackRepo repositories.FeedbackRepository
}

func NewModerationService(logger *zap.Logger, userRepo repositories.UserRepository, feedbackRepo repositories.FeedbackRepository) ModerationService {
	return &ModerationServiceImpl{
		logger:       logger,
		userRepo:     userRepo,
		feedbackRepo: feedbackRepo,
	}
}

func (s *ModerationServiceImpl) ListUsers(ctx context.Context, traceID string, limit, offset int) ([]pkgviews.UserView, error) {
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, pkg.HandleSQLError(traceID, s.logger, err)
	}
	out := make([]pkgviews.UserView, 0, len(users))
	for _, u := range users {
		out = append(out, u.ToView())
	}
	return out, nil
}

func (s *ModerationServiceImpl) ListFeedback(ctx context.Context, traceID string, limit, offset int) ([]pkgviews.FeedbackView, error) {
	items, err := s.feedbackRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, pkg.HandleSQLError(traceID, s.logger, err)
	}
	out := make([]pkgviews.FeedbackView, 0, len(items))
	for _, f := range items {
		out = append(out, f.ToView())
	}
	return out, nil
}

func (s *ModerationServiceImpl) DeleteFeedback(ctx context.Context, traceID string, feedbackID uuid.UUID) error {
	ok, err := s.feedbackRepo.Delete(ctx, feedbackID)
	if err != nil {
		return pkg.HandleSQLError(traceID, s.logger, err)
	}
	if !ok {
		return pkg.NewAppError(pkg.ErrRecordNotFoundCode, "feedback not found", nil)
	}
	s.logger.Info("feedback removed",
		zap.String(pkg.TraceId, traceID),
		zap.String("feedbackId", feedbackID.String()))
	return nil
}
