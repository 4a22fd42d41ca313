package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marketbay/shopfront/pkg"
	"github.com/marketbay/shopfront/pkg/models"
	"github.com/marketbay/shopfront/pkg/repositories"
	pkgviews "github.com/marketbay/shopfront/pkg/views"
	"github.com/marketbay/shopfront/services/storefront-api/internal/views"
	"go.uber.org/zap"
)

type FeedbackService interface {
	AddFeedback(ctx context.Context, traceID string, req views.CreateFeedbackRequest) (pkgviews.FeedbackView, error)
	ListByProduct(ctx context.Context, traceID string, productID uuid.UUID, limit, offset int) ([]pkgviews.FeedbackView, error)
}

type FeedbackServiceImpl struct {
	logger       *zap.Logger
	feedbackRepo repositories.FeedbackRepository
}

func NewFeedbackService(logger *zap.Logger, feedbackRepo repositories.FeedbackRepository) FeedbackService {
	return &FeedbackServiceImpl{logger: logger, feedbackRepo: feedbackRepo}
}

func (s *FeedbackServiceImpl) AddFeedback(ctx context.Context, traceID string, req views.CreateFeedbackRequest) (pkgviews.FeedbackView, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return pkgviews.FeedbackView{}, pkg.NewAppError(pkg.ErrInvalidInputCode, "invalid product id", err)
	}
	feedback := models.Feedback{
		ProductID: productID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}
	if req.UserID != "" {
		if feedback.UserID, err = uuid.Parse(req.UserID); err != nil {
			return pkgviews.FeedbackView{}, pkg.NewAppError(pkg.ErrInvalidInputCode, "invalid customer id", err)
		}
	}
	if err := s.feedbackRepo.Create(ctx, &feedback); err != nil {
		return pkgviews.FeedbackView{}, pkg.HandleSQLError(traceID, s.logger, err)
	}
	return feedback.ToView(), nil
}

func (s *FeedbackServiceImpl) ListByProduct(ctx context.Context, traceID string, productID uuid.UUID, limit, offset int) ([]pkgviews.FeedbackView, error) {
	items, err := s.feedbackRepo.ListByProduct(ctx, productID, limit, offset)
	if err != nil {
		return nil, pkg.HandleSQLError(traceID, s.logger, err)
	}
	out := make([]pkgviews.FeedbackView, 0, len(items))
	for _, f := range items {
		out = append(out, f.ToView())
	}
	return out, nil
}
