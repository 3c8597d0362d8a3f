package repository

import (
	"context"
	"errors"

	"github.com/caveo/pos-api/internal/domain/entity"
	domainRepo "github.com/caveo/pos-api/internal/domain/repository"
	"github.com/caveo/pos-api/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		Preload("PackagingUnits").
		First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		Preload("PackagingUnits").
		First(&product, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Product{}, "id = ?", id).Error
}

func (r *productRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Product{})

	if search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("PackagingUnits").
		Order("name ASC").
		Find(&products).Error

	return products, total, err
}

type packagingUnitRepository struct {
	db *gorm.DB
}

// NewPackagingUnitRepository creates a new packaging unit repository
func NewPackagingUnitRepository(db *gorm.DB) domainRepo.PackagingUnitRepository {
	return &packagingUnitRepository{db: db}
}

func (r *packagingUnitRepository) Create(ctx context.Context, unit *entity.PackagingUnit) error {
	return r.db.WithContext(ctx).Create(unit).Error
}

func (r *packagingUnitRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.PackagingUnit, error) {
	var unit entity.PackagingUnit
	err := r.db.WithContext(ctx).
		Preload("Product").
		First(&unit, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &unit, err
}

// GetByBarcode resolves a scanned code to a sellable unit. A miss is
// not an error: callers surface it as a non-blocking notification.
func (r *packagingUnitRepository) GetByBarcode(ctx context.Context, barcode string) (*entity.PackagingUnit, error) {
	var unit entity.PackagingUnit
	err := r.db.WithContext(ctx).
		Preload("Product").
		First(&unit, "barcode = ?", barcode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &unit, err
}

func (r *packagingUnitRepository) Update(ctx context.Context, unit *entity.PackagingUnit) error {
	return r.db.WithContext(ctx).Save(unit).Error
}

func (r *packagingUnitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.PackagingUnit{}, "id = ?", id).Error
}

func (r *packagingUnitRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]entity.PackagingUnit, error) {
	var units []entity.PackagingUnit
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&units).Error
	return units, err
}
