package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketbay/shopfront/pkg/views"
)

// User maps to table `users` (storefront customers).
type User struct {
	ID        uuid.UUID
	Email     string
	FullName  string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Address maps to table `addresses`.
type Address struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Line1     string
	Line2     string
	City      string
	Country   string
	Postal    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u User) ToView() views.UserView {
	return views.UserView{
		ID:        u.ID.String(),
		Email:     u.Email,
		FullName:  u.FullName,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (a Address) ToView() views.AddressView {
	return views.AddressView{
		ID:        a.ID.String(),
		UserID:    a.UserID.String(),
		Line1:     a.Line1,
		Line2:     a.Line2,
		City:      a.City,
		Country:   a.Country,
		Postal:    a.Postal,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// Feedback maps to table `feedback`. UserID is uuid.Nil for anonymous
// submissions.
type Feedback struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	Rating    int
	Comment   string
	CreatedAt time.Time
}

func (f Feedback) ToView() views.FeedbackView {
	v := views.FeedbackView{
		ID:        f.ID.String(),
		ProductID: f.ProductID.String(),
		Rating:    f.Rating,
		Comment:   f.Comment,
		CreatedAt: f.CreatedAt,
	}
	if f.UserID != uuid.Nil {
		v.UserID = f.UserID.String()
	}
	return v
}
