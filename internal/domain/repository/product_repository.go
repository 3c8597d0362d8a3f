package repository

import (
	"context"

	"github.com/caveo/pos-api/internal/domain/entity"
	"github.com/caveo/pos-api/pkg/pagination"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for catalog data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Product, int64, error)
}

// PackagingUnitRepository defines the interface for sellable units.
// GetByBarcode backs the scanner lookup path; a miss returns (nil, nil).
type PackagingUnitRepository interface {
	Create(ctx context.Context, unit *entity.PackagingUnit) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.PackagingUnit, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.PackagingUnit, error)
	Update(ctx context.Context, unit *entity.PackagingUnit) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]entity.PackagingUnit, error)
}
