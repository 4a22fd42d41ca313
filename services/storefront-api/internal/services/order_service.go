package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/marketbay/shopfront/pkg"
	"github.com/marketbay/shopfront/pkg/database"
	"github.com/marketbay/shopfront/pkg/models"
	"github.com/marketbay/shopfront/pkg/repositories"
	pkgviews "github.com/marketbay/shopfront/pkg/views"
	"github.com/marketbay/shopfront/services/storefront-api/internal/views"
	"go.uber.org/zap"
)

type OrderService interface {
	// CreateOrder validates the cart payload, decrements stock per line and
	// inserts the order, all inside one transaction. Any line failing the
	// stock guard rolls the whole order back.
	CreateOrder(ctx context.Context, traceID string, req views.CreateOrderRequest) (pkgviews.OrderView, error)
	GetOrder(ctx context.Context, traceID string, orderID uuid.UUID) (pkgviews.OrderView, error)
	// GetOrderByCode resolves an order from its public code, for clients
	// that only hold the code handed out at checkout.
	GetOrderByCode(ctx context.Context, traceID, code string) (pkgviews.OrderView, error)
	ListOrders(ctx context.Context, traceID string, userID uuid.UUID, limit, offset int) ([]pkgviews.OrderView, error)
}

type OrderServiceImpl struct {
	logger      *zap.Logger
	db          *database.DB
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	userRepo    repositories.UserRepository
}

func NewOrderService(logger *zap.Logger, db *database.DB, orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, userRepo repositories.UserRepository) OrderService {
	return &OrderServiceImpl{
		logger:      logger,
		db:          db,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

func (s *OrderServiceImpl) CreateOrder(ctx context.Context, traceID string, req views.CreateOrderRequest) (pkgviews.OrderView, error) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return pkgviews.OrderView{}, pkg.NewAppError(pkg.ErrInvalidInputCode, "invalid customer id", err)
	}
	addressID, err := uuid.Parse(req.AddressID)
	if err != nil {
		return pkgviews.OrderView{}, pkg.NewAppError(pkg.ErrInvalidInputCode, "invalid address id", err)
	}

	var order models.Order
	err = s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		exists, err := s.userRepo.ExistsTx(ctx, tx, userID)
		if err != nil {
			return pkg.HandleSQLError(traceID, s.logger, err)
		}
		if !exists {
			return pkg.NewAppError(pkg.ErrRecordNotFoundCode, "customer not found", nil)
		}

		owned, err := s.userRepo.AddressBelongsToUserTx(ctx, tx, addressID, userID)
		if err != nil {
			return pkg.HandleSQLError(traceID, s.logger, err)
		}
		if !owned {
			return pkg.NewAppError(pkg.ErrRecordNotFoundCode, "address not found", nil)
		}

		items := make([]models.OrderItem, 0, len(req.Products))
		for _, line := range req.Products {
			productID, err := uuid.Parse(line.ID)
			if err != nil {
				return pkg.NewAppError(pkg.ErrInvalidInputCode, "invalid product id", err)
			}
			ok, err := s.productRepo.DecrementStock(ctx, tx, productID, line.Quantity)
			if err != nil {
				return pkg.HandleSQLError(traceID, s.logger, err)
			}
			if !ok {
				// Rolls back decrements already applied for earlier lines.
				return pkg.NewAppError(pkg.ErrOutOfStockCode,
					fmt.Sprintf("insufficient stock for product %s", line.ID), pkg.ErrOutOfStock)
			}
			price, err := s.productRepo.PriceOf(ctx, tx, productID)
			if err != nil {
				return pkg.HandleSQLError(traceID, s.logger, err)
			}
			items = append(items, models.OrderItem{
				ProductID: productID,
				Quantity:  line.Quantity,
				UnitPrice: price,
			})
		}

		code, err := s.orderRepo.NextOrderCode(ctx, tx)
		if err != nil {
			return pkg.HandleSQLError(traceID, s.logger, err)
		}

		now := time.Now()
		order = models.Order{
			OrderCode:   code,
			UserID:      userID,
			AddressID:   addressID,
			Amount:      req.Amount,
			Description: pkg.EnsureOrderCode(req.Description, code),
			Status:      pkg.OrderStatusPending,
			CreatedAt:   now,
			UpdatedAt:   now,
			Items:       items,
		}
		if err := s.orderRepo.Create(ctx, tx, &order); err != nil {
			return pkg.HandleSQLError(traceID, s.logger, err)
		}
		return nil
	})
	if err != nil {
		return pkgviews.OrderView{}, err
	}

	s.logger.Info("order created",
		zap.String(pkg.TraceId, traceID),
		zap.String(pkg.OrderCode, order.OrderCode),
		zap.String("orderId", order.ID.String()),
		zap.Int64("amount", order.Amount),
		zap.Int("lines", len(order.Items)),
	)
	return order.ToView(), nil
}

func (s *OrderServiceImpl) GetOrder(ctx context.Context, traceID string, orderID uuid.UUID) (pkgviews.OrderView, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return pkgviews.OrderView{}, pkg.HandleSQLError(traceID, s.logger, err)
	}
	return order.ToView(), nil
}

func (s *OrderServiceImpl) GetOrderByCode(ctx context.Context, traceID, code string) (pkgviews.OrderView, error) {
	if pkg.ExtractOrderCode(code) != code {
		return pkgviews.OrderView{}, pkg.NewAppError(pkg.ErrInvalidInputCode, "invalid order code", nil)
	}
	order, err := s.orderRepo.FindByCode(ctx, code)
	if err != nil {
		return pkgviews.OrderView{}, pkg.HandleSQLError(traceID, s.logger, err)
	}
	return order.ToView(), nil
}

func (s *OrderServiceImpl) ListOrders(ctx context.Context, traceID string, userID uuid.UUID, limit, offset int) ([]pkgviews.OrderView, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, pkg.HandleSQLError(traceID, s.logger, err)
	}
	out := make([]pkgviews.OrderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ToView())
	}
	return out, nil
}
