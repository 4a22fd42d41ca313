package views

// CreateOrderRequest is the checkout payload posted by the cart.
type CreateOrderRequest struct {
	Amount      int64       `json:"amount" binding:"required,gt=0"`
	UserID      string      `json:"customerId" binding:"required,uuid"`
	AddressID   string      `json:"addressId" binding:"required,uuid"`
	Products    []OrderLine `json:"products" binding:"required,min=1,dive"`
	Description string      `json:"description"`
}

type OrderLine struct {
	ID       string `json:"id" binding:"required,uuid"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}

type RegisterUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"fullName" binding:"required"`
	Phone    string `json:"phone"`
}

type CreateAddressRequest struct {
	Line1   string `json:"line1" binding:"required"`
	Line2   string `json:"line2"`
	City    string `json:"city" binding:"required"`
	Country string `json:"country" binding:"required"`
	Postal  string `json:"postal"`
}

type CreateFeedbackRequest struct {
	UserID    string `json:"customerId" binding:"omitempty,uuid"`
	ProductID string `json:"productId" binding:"required,uuid"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

// PaymentEventTrigger is the internal push used to resolve a waiting
// payment-events stream by order code.
type PaymentEventTrigger struct {
	OrderCode string `json:"orderCode" binding:"required"`
}
