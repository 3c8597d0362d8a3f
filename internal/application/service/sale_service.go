package service

import (
	"context"
	"time"

	"github.com/caveo/pos-api/internal/domain/entity"
	"github.com/caveo/pos-api/internal/domain/enum"
	"github.com/caveo/pos-api/internal/domain/money"
	"github.com/caveo/pos-api/internal/domain/repository"
	"github.com/caveo/pos-api/pkg/apperror"
	"github.com/caveo/pos-api/pkg/pagination"
	"github.com/caveo/pos-api/pkg/utils"
	"github.com/google/uuid"
)

// SaleService orchestrates the register workflow: cart mutation while a
// sale is Draft, append-only payment collection, and the Draft -> Paid
// or Draft -> Cancelled transition. Every mutation round-trips to the
// database of record and returns the refreshed sale aggregate, so the
// caller never computes totals from stale local state.
type SaleService struct {
	saleRepo    repository.SaleRepository
	receiptRepo repository.ReceiptRepository
	unitRepo    repository.PackagingUnitRepository
	userRepo    repository.UserRepository
	terminal    CardTerminal
}

// NewSaleService creates a new sale service
func NewSaleService(
	saleRepo repository.SaleRepository,
	receiptRepo repository.ReceiptRepository,
	unitRepo repository.PackagingUnitRepository,
	userRepo repository.UserRepository,
	terminal CardTerminal,
) *SaleService {
	return &SaleService{
		saleRepo:    saleRepo,
		receiptRepo: receiptRepo,
		unitRepo:    unitRepo,
		userRepo:    userRepo,
		terminal:    terminal,
	}
}

// CreateDraftSale opens an empty Draft sale for a seller
func (s *SaleService) CreateDraftSale(ctx context.Context, sellerID uuid.UUID) (*entity.Sale, error) {
	seller, err := s.userRepo.GetByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if seller == nil {
		return nil, apperror.NewNotFoundError("Seller")
	}

	sale := &entity.Sale{
		Number:   utils.GenerateSaleNumber(),
		SellerID: sellerID,
		Status:   enum.SaleStatusDraft,
	}
	if err := s.saleRepo.Create(ctx, sale); err != nil {
		return nil, err
	}

	return s.saleRepo.GetWithDetails(ctx, sale.ID)
}

// GetSale retrieves a sale with its full details
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// ListSales lists sales with filtering
func (s *SaleService) ListSales(ctx context.Context, params *repository.SaleFilterParams) (*pagination.PaginatedResult[entity.Sale], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	sales, total, err := s.saleRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// ListDraftSales returns a seller's open drafts, most recent first.
// This is the recovery path after a terminal restart.
func (s *SaleService) ListDraftSales(ctx context.Context, sellerID uuid.UUID) ([]entity.Sale, error) {
	return s.saleRepo.ListDrafts(ctx, sellerID)
}

// mutableDraft loads a sale and checks that its cart may still change:
// the sale must be Draft and have no payment recorded yet.
func (s *SaleService) mutableDraft(ctx context.Context, saleID uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetWithDetails(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	if sale.Status != enum.SaleStatusDraft {
		return nil, apperror.ErrSaleAlreadySettled
	}
	if sale.HasPayments() {
		return nil, apperror.ErrSaleLocked
	}
	return sale, nil
}

// AddLine adds a (product, packaging unit, quantity) entry to the cart.
// Adding the same packaging unit again merges into the existing line
// instead of duplicating it. The unit price is captured now and stays
// fixed for the life of the sale.
func (s *SaleService) AddLine(ctx context.Context, saleID, packagingUnitID uuid.UUID, quantity int) (*entity.Sale, error) {
	if quantity < 1 {
		return nil, apperror.ErrInvalidQuantity
	}

	sale, err := s.mutableDraft(ctx, saleID)
	if err != nil {
		return nil, err
	}

	unit, err := s.unitRepo.GetByID(ctx, packagingUnitID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, apperror.NewNotFoundError("Packaging unit")
	}

	if existing := sale.FindLine(unit.ProductID, unit.ID); existing != nil {
		existing.Quantity += quantity
		if err := s.saleRepo.UpdateLine(ctx, existing); err != nil {
			return nil, err
		}
	} else {
		line := &entity.SaleLine{
			SaleID:          sale.ID,
			ProductID:       unit.ProductID,
			PackagingUnitID: unit.ID,
			Quantity:        quantity,
			UnitPrice:       unit.Price,
		}
		if err := s.saleRepo.CreateLine(ctx, line); err != nil {
			return nil, err
		}
	}

	return s.saleRepo.GetWithDetails(ctx, sale.ID)
}

// SetLineQuantity changes a line's quantity. Zero is not a valid
// quantity: deleting a line goes through RemoveLine.
func (s *SaleService) SetLineQuantity(ctx context.Context, saleID, lineID uuid.UUID, quantity int) (*entity.Sale, error) {
	if quantity < 1 {
		return nil, apperror.ErrInvalidQuantity
	}

	sale, err := s.mutableDraft(ctx, saleID)
	if err != nil {
		return nil, err
	}

	line := sale.LineByID(lineID)
	if line == nil {
		return nil, apperror.ErrLineNotFound
	}

	line.Quantity = quantity
	if err := s.saleRepo.UpdateLine(ctx, line); err != nil {
		return nil, err
	}

	return s.saleRepo.GetWithDetails(ctx, sale.ID)
}

// RemoveLine deletes a line from the cart
func (s *SaleService) RemoveLine(ctx context.Context, saleID, lineID uuid.UUID) (*entity.Sale, error) {
	sale, err := s.mutableDraft(ctx, saleID)
	if err != nil {
		return nil, err
	}

	if sale.LineByID(lineID) == nil {
		return nil, apperror.ErrLineNotFound
	}

	if err := s.saleRepo.DeleteLine(ctx, lineID); err != nil {
		return nil, err
	}

	return s.saleRepo.GetWithDetails(ctx, sale.ID)
}

// ApplyDiscount sets the sale-level discount, replacing any existing
// one. At most one discount is active per sale.
func (s *SaleService) ApplyDiscount(ctx context.Context, saleID uuid.UUID, discount entity.Discount) (*entity.Sale, error) {
	if !discount.IsValid() {
		return nil, apperror.ErrInvalidDiscountValue
	}

	sale, err := s.mutableDraft(ctx, saleID)
	if err != nil {
		return nil, err
	}

	kind := discount.Kind
	sale.DiscountKind = &kind
	sale.DiscountValue = discount.Value
	if err := s.saleRepo.Update(ctx, sale); err != nil {
		return nil, err
	}

	return s.saleRepo.GetWithDetails(ctx, sale.ID)
}

// RemoveDiscount clears the sale-level discount
func (s *SaleService) RemoveDiscount(ctx context.Context, saleID uuid.UUID) (*entity.Sale, error) {
	sale, err := s.mutableDraft(ctx, saleID)
	if err != nil {
		return nil, err
	}

	sale.DiscountKind = nil
	sale.DiscountValue = 0
	if err := s.saleRepo.Update(ctx, sale); err != nil {
		return nil, err
	}

	return s.saleRepo.GetWithDetails(ctx, sale.ID)
}

// PaymentInput describes one payment to record against a sale
type PaymentInput struct {
	Mode           enum.PaymentMode
	Amount         money.Money
	Reference      *string
	AmountTendered *money.Money // cash only
}

// PaymentResult reports the recorded payment, the refreshed sale, and
// the change owed back to the customer for cash tenders.
type PaymentResult struct {
	Sale      *entity.Sale   `json:"sale"`
	Payment   entity.Payment `json:"payment"`
	ChangeDue money.Money    `json:"change_due"`
}

// RecordPayment appends one payment to the sale's ledger. The recorded
// amount is clamped to the balance due, so the balance never goes
// negative; cash tendered beyond the balance comes back as change, not
// as an overpayment. Card payments first run through the terminal
// authorization and record its reference.
func (s *SaleService) RecordPayment(ctx context.Context, saleID uuid.UUID, input PaymentInput) (*PaymentResult, error) {
	if !input.Mode.IsValid() {
		return nil, apperror.NewBadRequestError("Unknown payment mode")
	}
	if !input.Amount.IsPositive() {
		return nil, apperror.ErrInvalidPaymentAmount
	}

	sale, err := s.saleRepo.GetWithDetails(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	if sale.Status != enum.SaleStatusDraft {
		return nil, apperror.ErrSaleAlreadySettled
	}
	if len(sale.Lines) == 0 {
		return nil, apperror.ErrSaleEmpty
	}

	balance := sale.BalanceDue()
	if !balance.IsPositive() {
		return nil, apperror.ErrSaleAlreadySettled
	}

	requested := input.Amount
	var tendered *money.Money
	if input.Mode == enum.PaymentModeCash && input.AmountTendered != nil {
		if !input.AmountTendered.IsPositive() {
			return nil, apperror.ErrInvalidPaymentAmount
		}
		t := *input.AmountTendered
		tendered = &t
		// The customer hands over the tendered amount; only what the
		// balance absorbs gets recorded.
		requested = t
	}

	amount := money.Min(requested, balance)

	reference := input.Reference
	if input.Mode == enum.PaymentModeCard {
		ref, err := s.terminal.Authorize(ctx, amount)
		if err != nil {
			return nil, err
		}
		reference = &ref
	}

	payment := &entity.Payment{
		SaleID:         sale.ID,
		Mode:           input.Mode,
		Amount:         amount,
		Reference:      reference,
		AmountTendered: tendered,
	}
	if err := s.saleRepo.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}

	refreshed, err := s.saleRepo.GetWithDetails(ctx, sale.ID)
	if err != nil {
		return nil, err
	}

	return &PaymentResult{
		Sale:      refreshed,
		Payment:   *payment,
		ChangeDue: payment.ChangeDue(),
	}, nil
}

// Finalize transitions a fully paid Draft sale to Paid, stamps the
// settlement time and projects the receipt snapshot. Finalizing an
// already Paid sale is idempotent and returns the settled sale with
// its existing receipt.
func (s *SaleService) Finalize(ctx context.Context, saleID uuid.UUID) (*entity.Sale, *entity.Receipt, error) {
	sale, err := s.saleRepo.GetWithDetails(ctx, saleID)
	if err != nil {
		return nil, nil, err
	}
	if sale == nil {
		return nil, nil, apperror.NewNotFoundError("Sale")
	}

	if sale.Status == enum.SaleStatusPaid {
		receipt, err := s.receiptRepo.GetBySaleID(ctx, sale.ID)
		if err != nil {
			return nil, nil, err
		}
		return sale, receipt, nil
	}
	if sale.Status == enum.SaleStatusCancelled {
		return nil, nil, apperror.ErrSaleAlreadySettled
	}

	if len(sale.Lines) == 0 {
		return nil, nil, apperror.ErrSaleEmpty
	}
	if !sale.IsFullyPaid() {
		return nil, nil, apperror.ErrSaleNotFullyPaid
	}

	now := time.Now()
	if err := s.saleRepo.UpdateStatus(ctx, sale.ID, enum.SaleStatusPaid, &now); err != nil {
		return nil, nil, err
	}

	settled, err := s.saleRepo.GetWithDetails(ctx, sale.ID)
	if err != nil {
		return nil, nil, err
	}

	receipt, ok := entity.ProjectReceipt(settled)
	if !ok {
		return nil, nil, apperror.ErrInternalServer
	}
	if err := s.receiptRepo.Create(ctx, receipt); err != nil {
		return nil, nil, err
	}

	return settled, receipt, nil
}

// Cancel discards a Draft sale, lines and payments included. Settled
// sales cannot be cancelled.
func (s *SaleService) Cancel(ctx context.Context, saleID uuid.UUID) error {
	sale, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return err
	}
	if sale == nil {
		return apperror.NewNotFoundError("Sale")
	}
	if sale.Status != enum.SaleStatusDraft {
		return apperror.ErrSaleAlreadySettled
	}

	return s.saleRepo.UpdateStatus(ctx, saleID, enum.SaleStatusCancelled, nil)
}

// GetReceipt returns the receipt snapshot of a settled sale
func (s *SaleService) GetReceipt(ctx context.Context, saleID uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetBySaleID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return receipt, nil
}
