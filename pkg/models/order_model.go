package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketbay/shopfront/pkg"
	"github.com/marketbay/shopfront/pkg/views"
)

// Order maps to table `orders`. OrderCode is the indexed correlation
// identifier the payment gateway echoes back in webhook free text.
type Order struct {
	ID            uuid.UUID
	OrderCode     string
	UserID        uuid.UUID
	AddressID     uuid.UUID
	Amount        int64
	Description   string
	PaymentMethod string
	Status        pkg.OrderStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Items []OrderItem
}

// OrderItem maps to table `order_items`. UnitPrice is captured at order time
// so later catalog price changes do not rewrite order history.
type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	UnitPrice int64
}

func (o Order) ToView() views.OrderView {
	items := make([]views.OrderItemView, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, views.OrderItemView{
			ProductID: it.ProductID.String(),
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return views.OrderView{
		ID:            o.ID.String(),
		OrderCode:     o.OrderCode,
		UserID:        o.UserID.String(),
		AddressID:     o.AddressID.String(),
		Amount:        o.Amount,
		Description:   o.Description,
		PaymentMethod: o.PaymentMethod,
		Status:        string(o.Status),
		Items:         items,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func (o Order) ToPaymentEvent() views.PaymentEvent {
	return views.PaymentEvent{
		EventID:       uuid.New().String(),
		OrderID:       o.ID.String(),
		OrderCode:     o.OrderCode,
		UserID:        o.UserID.String(),
		Amount:        o.Amount,
		Status:        o.Status,
		PaymentMethod: o.PaymentMethod,
		OccurredAt:    time.Now().UTC(),
	}
}
