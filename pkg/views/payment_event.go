package views

import (
	"time"

	"github.com/marketbay/shopfront/pkg"
)

// PaymentEvent is the Kafka wire format published by the webhook receiver
// and consumed by the notification fan-out (SSE relay + mail notify).
type PaymentEvent struct {
	EventID       string          `json:"eventId" validate:"required"`
	OrderID       string          `json:"orderId" validate:"required"`
	OrderCode     string          `json:"orderCode" validate:"required"`
	UserID        string          `json:"userId"`
	Email         string          `json:"email"`
	Amount        int64           `json:"amount"`
	Status        pkg.OrderStatus `json:"status" validate:"required"`
	PaymentMethod string          `json:"paymentMethod"`
	OccurredAt    time.Time       `json:"occurredAt"`
}
