package pos

import (
	"context"
	"sync"

	"github.com/caveo/pos-api/internal/application/service"
	"github.com/caveo/pos-api/internal/domain/entity"
	"github.com/caveo/pos-api/internal/domain/enum"
	"github.com/caveo/pos-api/pkg/apperror"
	"github.com/google/uuid"
)

// SaleWorkflow is the slice of the sale service a terminal session
// drives. Implemented by service.SaleService.
type SaleWorkflow interface {
	CreateDraftSale(ctx context.Context, sellerID uuid.UUID) (*entity.Sale, error)
	ListDraftSales(ctx context.Context, sellerID uuid.UUID) ([]entity.Sale, error)
	GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	AddLine(ctx context.Context, saleID, packagingUnitID uuid.UUID, quantity int) (*entity.Sale, error)
	SetLineQuantity(ctx context.Context, saleID, lineID uuid.UUID, quantity int) (*entity.Sale, error)
	RemoveLine(ctx context.Context, saleID, lineID uuid.UUID) (*entity.Sale, error)
	ApplyDiscount(ctx context.Context, saleID uuid.UUID, discount entity.Discount) (*entity.Sale, error)
	RemoveDiscount(ctx context.Context, saleID uuid.UUID) (*entity.Sale, error)
	RecordPayment(ctx context.Context, saleID uuid.UUID, input service.PaymentInput) (*service.PaymentResult, error)
	Finalize(ctx context.Context, saleID uuid.UUID) (*entity.Sale, *entity.Receipt, error)
	Cancel(ctx context.Context, saleID uuid.UUID) error
}

// BarcodeResolver maps a scanned code to a packaging unit. Implemented
// by service.ProductService. A miss returns (nil, nil).
type BarcodeResolver interface {
	ResolveBarcode(ctx context.Context, barcode string) (*entity.PackagingUnit, error)
}

// Session is one operator's terminal session. It owns at most one
// draft sale at a time and serializes mutating calls on it: while a
// call is in flight the session is busy and further mutations are
// rejected, not queued.
type Session struct {
	operatorID uuid.UUID
	workflow   SaleWorkflow
	catalog    BarcodeResolver

	mu      sync.Mutex
	busy    bool
	current *entity.Sale
}

// NewSession creates a terminal session for the given operator.
func NewSession(operatorID uuid.UUID, workflow SaleWorkflow, catalog BarcodeResolver) *Session {
	return &Session{
		operatorID: operatorID,
		workflow:   workflow,
		catalog:    catalog,
	}
}

// Current returns the session's sale snapshot, nil when none is open.
func (s *Session) Current() *entity.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Busy reports whether a mutating call is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// begin acquires the busy flag or rejects the call.
func (s *Session) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return apperror.ErrSaleBusy
	}
	s.busy = true
	return nil
}

// end releases the busy flag and refreshes the snapshot.
func (s *Session) end(sale *entity.Sale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if sale != nil {
		s.current = sale
	}
}

// currentDraftID returns the open draft's ID.
func (s *Session) currentDraftID() (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.Status != enum.SaleStatusDraft {
		return uuid.Nil, apperror.NewNotFoundError("Draft sale")
	}
	return s.current.ID, nil
}

// Recover reattaches the operator's most recent draft sale, if any.
// Called on terminal startup so a crash never silently loses a sale.
func (s *Session) Recover(ctx context.Context) (*entity.Sale, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}

	drafts, err := s.workflow.ListDraftSales(ctx, s.operatorID)
	if err != nil {
		s.end(nil)
		return nil, err
	}
	if len(drafts) == 0 {
		s.end(nil)
		return nil, nil
	}

	// Drafts are ordered most recent first.
	sale, err := s.workflow.GetSale(ctx, drafts[0].ID)
	if err != nil {
		s.end(nil)
		return nil, err
	}
	s.end(sale)
	return sale, nil
}

// StartNewSale opens a fresh draft. It fails while a draft holding
// lines or payments is still open; the operator has to finalize or
// cancel it first. An untouched empty draft is simply reused.
func (s *Session) StartNewSale(ctx context.Context) (*entity.Sale, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	current := s.current
	s.mu.Unlock()

	if current != nil && current.Status == enum.SaleStatusDraft {
		if len(current.Lines) > 0 || len(current.Payments) > 0 {
			s.end(nil)
			return nil, apperror.ErrSaleInProgress
		}
		s.end(current)
		return current, nil
	}

	sale, err := s.workflow.CreateDraftSale(ctx, s.operatorID)
	if err != nil {
		s.end(nil)
		return nil, err
	}
	s.end(sale)
	return sale, nil
}

// AddLine adds a packaging unit to the open draft.
func (s *Session) AddLine(ctx context.Context, packagingUnitID uuid.UUID, quantity int) (*entity.Sale, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	saleID, err := s.currentDraftID()
	if err != nil {
		s.end(nil)
		return nil, err
	}

	sale, err := s.workflow.AddLine(ctx, saleID, packagingUnitID, quantity)
	if err != nil {
		s.end(nil)
		return nil, err
	}
	s.end(sale)
	return sale, nil
}

// ScanBarcode resolves a scan event and adds one unit of the matching
// packaging to the open draft. An unknown code leaves the sale
// untouched and surfaces as a not-found error for the UI to toast.
func (s *Session) ScanBarcode(ctx context.Context, code string) (*entity.Sale, error) {
	unit, err := s.catalog.ResolveBarcode(ctx, code)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, apperror.ErrBarcodeUnknown
	}
	return s.AddLine(ctx, unit.ID, 1)
}

// SetLineQuantity changes a line's quantity on the open draft.
func (s *Session) SetLineQuantity(ctx context.Context, lineID uuid.UUID, quantity int) (*entity.Sale, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	saleID, err := s.currentDraftID()
	if err != nil {
		s.end(nil)
		return nil, err
	}

	sale, err := s.workflow.SetLineQuantity(ctx, saleID, lineID, quantity)
	if err != nil {
		s.end(nil)
		return nil, err
	}
	s.end(sale)
	return sale, nil
}

// RemoveLine removes a line from the open draft.
func (s *Session) RemoveLine(ctx context.Context, lineID uuid.UUID) (*entity.Sale, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	saleID, err := s.currentDraftID()
	if err != nil {
		s.end(nil)
		return nil, err
	}

	sale, err := s.workflow.RemoveLine(ctx, saleID, lineID)
	if err != nil {
		s.end(nil)
		return nil, err
	}
	s.end(sale)
	return sale, nil
}

// ApplyDiscount sets the sale-level discount on the open draft.
func (s *Session) ApplyDiscount(ctx context.Context, discount entity.Discount) (*entity.Sale, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	saleID, err := s.currentDraftID()
	if err != nil {
		s.end(nil)
		return nil, err
	}

	sale, err := s.workflow.ApplyDiscount(ctx, saleID, discount)
	if err != nil {
		s.end(nil)
		return nil, err
	}
	s.end(sale)
	return sale, nil
}

// RemoveDiscount clears the sale-level discount on the open draft.
func (s *Session) RemoveDiscount(ctx context.Context) (*entity.Sale, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	saleID, err := s.currentDraftID()
	if err != nil {
		s.end(nil)
		return nil, err
	}

	sale, err := s.workflow.RemoveDiscount(ctx, saleID)
	if err != nil {
		s.end(nil)
		return nil, err
	}
	s.end(sale)
	return sale, nil
}

// RecordPayment records a payment against the open draft.
func (s *Session) RecordPayment(ctx context.Context, input service.PaymentInput) (*service.PaymentResult, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	saleID, err := s.currentDraftID()
	if err != nil {
		s.end(nil)
		return nil, err
	}

	result, err := s.workflow.RecordPayment(ctx, saleID, input)
	if err != nil {
		s.end(nil)
		return nil, err
	}
	s.end(result.Sale)
	return result, nil
}

// Finalize settles the open draft and returns its receipt.
func (s *Session) Finalize(ctx context.Context) (*entity.Sale, *entity.Receipt, error) {
	if err := s.begin(); err != nil {
		return nil, nil, err
	}
	saleID, err := s.currentDraftID()
	if err != nil {
		s.end(nil)
		return nil, nil, err
	}

	sale, receipt, err := s.workflow.Finalize(ctx, saleID)
	if err != nil {
		s.end(nil)
		return nil, nil, err
	}
	s.end(sale)
	return sale, receipt, nil
}

// Cancel abandons the open draft.
func (s *Session) Cancel(ctx context.Context) error {
	if err := s.begin(); err != nil {
		return err
	}
	saleID, err := s.currentDraftID()
	if err != nil {
		s.end(nil)
		return err
	}

	if err := s.workflow.Cancel(ctx, saleID); err != nil {
		s.end(nil)
		return err
	}

	s.mu.Lock()
	s.busy = false
	s.current = nil
	s.mu.Unlock()
	return nil
}
