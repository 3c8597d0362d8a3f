package service

import (
	"context"

	"github.com/caveo/pos-api/internal/domain/entity"
	"github.com/caveo/pos-api/internal/domain/money"
	"github.com/caveo/pos-api/internal/domain/repository"
	"github.com/caveo/pos-api/pkg/apperror"
	"github.com/caveo/pos-api/pkg/pagination"
	"github.com/caveo/pos-api/pkg/utils"
	"github.com/google/uuid"
)

// ProductService handles the wine catalog and barcode resolution
type ProductService struct {
	productRepo repository.ProductRepository
	unitRepo    repository.PackagingUnitRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository, unitRepo repository.PackagingUnitRepository) *ProductService {
	return &ProductService{productRepo: productRepo, unitRepo: unitRepo}
}

// PackagingUnitInput describes one sellable unit of a product
type PackagingUnitInput struct {
	Label     string
	Barcode   string
	UnitCount int
	Price     money.Money
	Stock     int
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Name           string
	Appellation    *string
	Vintage        *int
	Color          *string
	Notes          *string
	PackagingUnits []PackagingUnitInput
}

// CreateProduct creates a product together with its packaging units
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if input.Name == "" {
		return nil, apperror.NewBadRequestError("Product name is required")
	}

	product := &entity.Product{
		Name:        input.Name,
		Slug:        utils.Slugify(input.Name),
		Code:        utils.GenerateProductCode(),
		Appellation: input.Appellation,
		Vintage:     input.Vintage,
		Color:       input.Color,
		Notes:       input.Notes,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	for _, u := range input.PackagingUnits {
		unitCount := u.UnitCount
		if unitCount < 1 {
			unitCount = 1
		}
		unit := &entity.PackagingUnit{
			ProductID: product.ID,
			Label:     u.Label,
			Barcode:   u.Barcode,
			UnitCount: unitCount,
			Price:     u.Price,
			Stock:     u.Stock,
		}
		if err := s.unitRepo.Create(ctx, unit); err != nil {
			return nil, err
		}
	}

	return s.productRepo.GetByID(ctx, product.ID)
}

// GetProduct retrieves a product by slug
func (s *ProductService) GetProduct(ctx context.Context, slug string) (*entity.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with search and pagination
func (s *ProductService) ListProducts(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Product], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	products, total, err := s.productRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// UpdateProduct updates mutable product fields
func (s *ProductService) UpdateProduct(ctx context.Context, slug string, input *CreateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if input.Name != "" {
		product.Name = input.Name
		product.Slug = utils.Slugify(input.Name)
	}
	product.Appellation = input.Appellation
	product.Vintage = input.Vintage
	product.Color = input.Color
	product.Notes = input.Notes

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(ctx, product.ID)
}

// DeleteProduct removes a product from the catalog
func (s *ProductService) DeleteProduct(ctx context.Context, slug string) error {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}
	return s.productRepo.Delete(ctx, product.ID)
}

// ResolveBarcode maps a scanned code to a packaging unit with its
// product. A miss returns (nil, nil): the register shows a transient
// "not found" notice and the sale is untouched.
func (s *ProductService) ResolveBarcode(ctx context.Context, barcode string) (*entity.PackagingUnit, error) {
	if barcode == "" {
		return nil, apperror.NewBadRequestError("Barcode is required")
	}
	return s.unitRepo.GetByBarcode(ctx, barcode)
}

// GetPackagingUnit retrieves a packaging unit by id
func (s *ProductService) GetPackagingUnit(ctx context.Context, id uuid.UUID) (*entity.PackagingUnit, error) {
	unit, err := s.unitRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, apperror.NewNotFoundError("Packaging unit")
	}
	return unit, nil
}
