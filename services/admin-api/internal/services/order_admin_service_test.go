package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/marketbay/shopfront/pkg"
	"github.com/marketbay/shopfront/pkg/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubOrderRepo struct {
	listFn func(status string, limit, offset int) ([]models.Order, error)
}

func (s *stubOrderRepo) NextOrderCode(context.Context, pgx.Tx) (string, error) {
	return "", errors.New("not implemented")
}
func (s *stubOrderRepo) Create(context.Context, pgx.Tx, *models.Order) error {
	return errors.New("not implemented")
}
func (s *stubOrderRepo) FindByID(context.Context, uuid.UUID) (models.Order, error) {
	return models.Order{}, errors.New("not implemented")
}
func (s *stubOrderRepo) FindByCode(context.Context, string) (models.Order, error) {
	return models.Order{}, errors.New("not implemented")
}
func (s *stubOrderRepo) ListByUser(context.Context, uuid.UUID, int, int) ([]models.Order, error) {
	return nil, errors.New("not implemented")
}
func (s *stubOrderRepo) List(_ context.Context, status string, limit, offset int) ([]models.Order, error) {
	return s.listFn(status, limit, offset)
}
func (s *stubOrderRepo) MarkPaid(context.Context, pgx.Tx, string, string) (models.Order, error) {
	return models.Order{}, errors.New("not implemented")
}
func (s *stubOrderRepo) UpdateStatus(context.Context, pgx.Tx, uuid.UUID, pkg.OrderStatus) error {
	return errors.New("not implemented")
}

func TestListOrders_RejectsUnknownStatus(t *testing.T) {
	svc := NewOrderAdminService(zap.NewNop(), nil, &stubOrderRepo{
		listFn: func(string, int, int) ([]models.Order, error) {
			t.Fatal("repo must not be hit for an invalid status filter")
			return nil, nil
		},
	})

	_, err := svc.ListOrders(context.Background(), "trace-1", "SHIPPED", 20, 0)

	var appErr pkg.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, pkg.ErrInvalidInputCode, appErr.Code)
}

func TestListOrders_PassesStatusFilter(t *testing.T) {
	svc := NewOrderAdminService(zap.NewNop(), nil, &stubOrderRepo{
		listFn: func(status string, limit, offset int) ([]models.Order, error) {
			assert.Equal(t, "PENDING", status)
			assert.Equal(t, 20, limit)
			return []models.Order{{OrderCode: "ORD1001", Status: pkg.OrderStatusPending}}, nil
		},
	})

	orders, err := svc.ListOrders(context.Background(), "trace-1", "PENDING", 20, 0)

	assert.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, "ORD1001", orders[0].OrderCode)
	assert.Equal(t, "PENDING", orders[0].Status)
}

func TestListOrders_EmptyStatusListsAll(t *testing.T) {
	svc := NewOrderAdminService(zap.NewNop(), nil, &stubOrderRepo{
		listFn: func(status string, limit, offset int) ([]models.Order, error) {
			assert.Empty(t, status)
			return nil, nil
		},
	})

	orders, err := svc.ListOrders(context.Background(), "trace-1", "", 20, 0)

	assert.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOverrideStatus_RejectsUnknownStatus(t *testing.T) {
	svc := NewOrderAdminService(zap.NewNop(), nil, &stubOrderRepo{})

	_, err := svc.OverrideStatus(context.Background(), "trace-1", uuid.New(), "REFUNDED")

	var appErr pkg.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, pkg.ErrInvalidTransition, appErr.Code)
}
