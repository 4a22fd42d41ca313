package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketbay/shopfront/pkg/views"
)

// Category maps to table `categories`.
type Category struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Product maps to table `products`. Quantity is the mutable stock counter;
// it is only ever decremented through the guarded update in the order
// transaction and must never go negative.
type Product struct {
	ID          uuid.UUID
	CategoryID  uuid.UUID
	Name        string
	Description string
	ImageURL    string
	Price       int64
	Quantity    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c Category) ToView() views.CategoryView {
	return views.CategoryView{
		ID:        c.ID.String(),
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (p Product) ToView() views.ProductView {
	v := views.ProductView{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Price:       p.Price,
		Quantity:    p.Quantity,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.CategoryID != uuid.Nil {
		v.CategoryID = p.CategoryID.String()
	}
	return v
}

// Banner maps to table `banners`.
type Banner struct {
	ID        uuid.UUID
	Title     string
	ImageURL  string
	LinkURL   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b Banner) ToView() views.BannerView {
	return views.BannerView{
		ID:        b.ID.String(),
		Title:     b.Title,
		ImageURL:  b.ImageURL,
		LinkURL:   b.LinkURL,
		Active:    b.Active,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
