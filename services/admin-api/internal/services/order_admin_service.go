package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/marketbay/shopfront/pkg"
	"github.com/marketbay/shopfront/pkg/database"
	"github.com/marketbay/shopfront/pkg/repositories"
	pkgviews "github.com/marketbay/shopfront/pkg/views"
	"go.uber.org/zap"
)

// OrderAdminService serves the back-office order screens: the full order
// list with status filtering, and manual status overrides for orders whose
// payment was confirmed out of band.
type OrderAdminService interface {
	ListOrders(ctx context.Context, traceID, status string, limit, offset int) ([]pkgviews.OrderView, error)
	GetOrder(ctx context.Context, traceID string, orderID uuid.UUID) (pkgviews.OrderView, error)
	OverrideStatus(ctx context.Context, traceID string, orderID uuid.UUID, status string) (pkgviews.OrderView, error)
}

type OrderAdminServiceImpl struct {
	logger    *zap.Logger
	db        *database.DB
	orderRepo repositories.OrderRepository
}

func NewOrderAdminService(logger *zap.Logger, db *database.DB, orderRepo repositories.OrderRepository) OrderAdminService {
	return &OrderAdminServiceImpl{logger: logger, db: db, orderRepo: orderRepo}
}

func (s *OrderAdminServiceImpl) ListOrders(ctx context.Context, traceID, status string, limit, offset int) ([]pkgviews.OrderView, error) {
	if status != "" && !pkg.ValidOrderStatus(status) {
		return nil, pkg.NewAppError(pkg.ErrInvalidInputCode, "unknown order status: "+status, nil)
	}
	orders, err := s.orderRepo.List(ctx, status, limit, offset)
	if err != nil {
		return nil, pkg.HandleSQLError(traceID, s.logger, err)
	}
	out := make([]pkgviews.OrderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ToView())
	}
	return out, nil
}

func (s *OrderAdminServiceImpl) GetOrder(ctx context.Context, traceID string, orderID uuid.UUID) (pkgviews.OrderView, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return pkgviews.OrderView{}, pkg.HandleSQLError(traceID, s.logger, err)
	}
	return order.ToView(), nil
}

func (s *OrderAdminServiceImpl) OverrideStatus(ctx context.Context, traceID string, orderID uuid.UUID, status string) (pkgviews.OrderView, error) {
	if !pkg.ValidOrderStatus(status) {
		return pkgviews.OrderView{}, pkg.NewAppError(pkg.ErrInvalidTransition, "unknown order status: "+status, nil)
	}

	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.orderRepo.UpdateStatus(ctx, tx, orderID, pkg.OrderStatus(status))
	})
	if err != nil {
		return pkgviews.OrderView{}, pkg.HandleSQLError(traceID, s.logger, err)
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return pkgviews.OrderView{}, pkg.HandleSQLError(traceID, s.logger, err)
	}
	s.logger.Info("order status overridden",
		zap.String(pkg.TraceId, traceID),
		zap.String(pkg.OrderCode, order.OrderCode),
		zap.String("status", status))
	return order.ToView(), nil
}
