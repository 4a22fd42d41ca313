package views

import "time"

// OrderView is the JSON shape returned for order rows.
type OrderView struct {
	ID            string          `json:"id"`
	OrderCode     string          `json:"orderCode"`
	UserID        string          `json:"userId"`
	AddressID     string          `json:"addressId"`
	Amount        int64           `json:"amount"`
	Description   string          `json:"description"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	Status        string          `json:"status"`
	Items         []OrderItemView `json:"items,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type OrderItemView struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}
