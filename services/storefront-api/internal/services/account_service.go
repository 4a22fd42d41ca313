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

// AccountService covers customer registration and address book management.
// Authentication itself is handled by the external auth provider; this
// service only owns the customer rows.
type AccountService interface {
	Register(ctx context.Context, traceID string, req views.RegisterUserRequest) (pkgviews.UserView, error)
	GetUser(ctx context.Context, traceID string, userID uuid.UUID) (pkgviews.UserView, error)
	AddAddress(ctx context.Context, traceID string, userID uuid.UUID, req views.CreateAddressRequest) (pkgviews.AddressView, error)
	ListAddresses(ctx context.Context, traceID string, userID uuid.UUID) ([]pkgviews.AddressView, error)
}

type AccountServiceImpl struct {
	logger   *zap.Logger
	userRepo repositories.UserRepository
}

func NewAccountService(logger *zap.Logger, userRepo repositories.UserRepository) AccountService {
	return &AccountServiceImpl{logger: logger, userRepo: userRepo}
}

func (s *AccountServiceImpl) Register(ctx context.Context, traceID string, req views.RegisterUserRequest) (pkgviews.UserView, error) {
	now := time.Now()
	user := models.User{
		Email:     req.Email,
		FullName:  req.FullName,
		Phone:     req.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.userRepo.Create(ctx, &user); err != nil {
		return pkgviews.UserView{}, pkg.HandleSQLError(traceID, s.logger, err)
	}
	s.logger.Info("customer registered",
		zap.String(pkg.TraceId, traceID),
		zap.String("userId", user.ID.String()))
	return user.ToView(), nil
}

func (s *AccountServiceImpl) GetUser(ctx context.Context, traceID string, userID uuid.UUID) (pkgviews.UserView, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return pkgviews.UserView{}, pkg.HandleSQLError(traceID, s.logger, err)
	}
	return user.ToView(), nil
}

func (s *AccountServiceImpl) AddAddress(ctx context.Context, traceID string, userID uuid.UUID, req views.CreateAddressRequest) (pkgviews.AddressView, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return pkgviews.AddressView{}, pkg.HandleSQLError(traceID, s.logger, err)
	}
	now := time.Now()
	address := models.Address{
		UserID:    userID,
		Line1:     req.Line1,
		Line2:     req.Line2,
		City:      req.City,
		Country:   req.Country,
		Postal:    req.Postal,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.userRepo.CreateAddress(ctx, &address); err != nil {
		return pkgviews.AddressView{}, pkg.HandleSQLError(traceID, s.logger, err)
	}
	return address.ToView(), nil
}

func (s *AccountServiceImpl) ListAddresses(ctx context.Context, traceID string, userID uuid.UUID) ([]pkgviews.AddressView, error) {
	addresses, err := s.userRepo.ListAddresses(ctx, userID)
	if err != nil {
		return nil, pkg.HandleSQLError(traceID, s.logger, err)
	}
	out := make([]pkgviews.AddressView, 0, len(addresses))
	for _, a := range addresses {
		out = append(out, a.ToView())
	}
	return out, nil
}
