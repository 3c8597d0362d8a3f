package repository

import (
	"context"
	"time"

	"github.com/caveo/pos-api/internal/domain/entity"
	"github.com/caveo/pos-api/internal/domain/enum"
	"github.com/caveo/pos-api/pkg/pagination"
	"github.com/google/uuid"
)

// SaleRepository defines the interface for sale data operations.
// GetWithDetails loads the full aggregate (seller, lines with product
// and packaging unit, payments), which the derived monetary fields are
// computed from.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	GetByNumber(ctx context.Context, number string) (*entity.Sale, error)
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	Update(ctx context.Context, sale *entity.Sale) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.SaleStatus, settledAt *time.Time) error
	List(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, int64, error)
	ListDrafts(ctx context.Context, sellerID uuid.UUID) ([]entity.Sale, error)

	CreateLine(ctx context.Context, line *entity.SaleLine) error
	UpdateLine(ctx context.Context, line *entity.SaleLine) error
	DeleteLine(ctx context.Context, id uuid.UUID) error

	CreatePayment(ctx context.Context, payment *entity.Payment) error
}

// SaleFilterParams contains filtering parameters for sale queries
type SaleFilterParams struct {
	Pagination *pagination.PaginationParams
	SellerID   *uuid.UUID
	Status     *enum.SaleStatus
	Search     string
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}

// ReceiptRepository defines the interface for receipt snapshots.
// Receipts are write-once: only Create and reads exist.
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *entity.Receipt) error
	GetBySaleID(ctx context.Context, saleID uuid.UUID) (*entity.Receipt, error)
}
