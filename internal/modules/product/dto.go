package product

type ProductRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	SKU         string `json:"sku" validate:"required,max=64"`
	Description string `json:"description" validate:"max=5000"`
	Category    string `json:"category" validate:"max=64"`
	PriceCents  int64  `json:"priceCents" validate:"gte=0"`
	Stock       int    `json:"stock" validate:"gte=0"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,url,max=512"`
	Active      *bool  `json:"active"`
}

// PatchProductRequest updates only the fields present in the body.
type PatchProductRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	SKU         *string `json:"sku" validate:"omitempty,min=1,max=64"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Category    *string `json:"category" validate:"omitempty,max=64"`
	PriceCents  *int64  `json:"priceCents" validate:"omitempty,gte=0"`
	Stock       *int    `json:"stock" validate:"omitempty,gte=0"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,max=512"`
	Active      *bool   `json:"active"`
}
