package request

// PackagingUnitRequest describes one sellable packaging of a product,
// e.g. a single bottle, a 6-bottle case, a magnum.
type PackagingUnitRequest struct {
	Label     string  `json:"label" binding:"required,min=1,max=100"`
	Barcode   string  `json:"barcode" binding:"required,min=3,max=100"`
	UnitCount int     `json:"unit_count" binding:"required,min=1"`
	Price     float64 `json:"price" binding:"required,gt=0"`
	Stock     int     `json:"stock" binding:"min=0"`
}

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Name           string                 `json:"name" binding:"required,min=2,max=255"`
	Appellation    *string                `json:"appellation" binding:"omitempty,max=255"`
	Vintage        *int                   `json:"vintage" binding:"omitempty,min=1900,max=2100"`
	Color          *string                `json:"color" binding:"omitempty,oneof=red white rose sparkling other"`
	Notes          *string                `json:"notes"`
	PackagingUnits []PackagingUnitRequest `json:"packaging_units" binding:"required,min=1,dive"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	Name           string                 `json:"name" binding:"required,min=2,max=255"`
	Appellation    *string                `json:"appellation" binding:"omitempty,max=255"`
	Vintage        *int                   `json:"vintage" binding:"omitempty,min=1900,max=2100"`
	Color          *string                `json:"color" binding:"omitempty,oneof=red white rose sparkling other"`
	Notes          *string                `json:"notes"`
	PackagingUnits []PackagingUnitRequest `json:"packaging_units" binding:"required,min=1,dive"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search  string `form:"search"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
