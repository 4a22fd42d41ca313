package views

// CreateProductRequest is the back-office payload for adding a catalog item.
// Price is in minor currency units.
type CreateProductRequest struct {
	CategoryID  string `json:"categoryId" binding:"omitempty,uuid"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Price       int64  `json:"price" binding:"required,gt=0"`
	Quantity    int    `json:"quantity" binding:"min=0"`
}

type UpdateProductRequest struct {
	CategoryID  string `json:"categoryId" binding:"omitempty,uuid"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Price       int64  `json:"price" binding:"required,gt=0"`
	Quantity    int    `json:"quantity" binding:"min=0"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreateBannerRequest struct {
	Title    string `json:"title" binding:"required"`
	ImageURL string `json:"imageUrl" binding:"required"`
	LinkURL  string `json:"linkUrl"`
	Active   bool   `json:"active"`
}

type UpdateBannerRequest struct {
	Title    string `json:"title" binding:"required"`
	ImageURL string `json:"imageUrl" binding:"required"`
	LinkURL  string `json:"linkUrl"`
	Active   bool   `json:"active"`
}

// UpdateOrderStatusRequest overrides an order's status by hand, e.g. marking
// a bank-transfer order SUCCESS after the money shows up.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
