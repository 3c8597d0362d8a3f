package service

import (
	"context"
	"fmt"

	"github.com/caveo/pos-api/internal/domain/entity"
	"github.com/caveo/pos-api/internal/domain/repository"
	"github.com/caveo/pos-api/pkg/apperror"
	"github.com/caveo/pos-api/pkg/printer"
	"github.com/google/uuid"
)

// PrinterService renders receipt snapshots to ESC/POS and sends them
// to the configured thermal printer. It only ever consumes the
// projected Receipt entity, never the live sale.
type PrinterService struct {
	printer     printer.Printer
	receiptRepo repository.ReceiptRepository
	printerType string
	charWidth   int
	storeName   string
}

// NewPrinterService creates a new printer service
func NewPrinterService(p printer.Printer, receiptRepo repository.ReceiptRepository, printerType string, charWidth int, storeName string) *PrinterService {
	if storeName == "" {
		storeName = "Caveo"
	}
	return &PrinterService{
		printer:     p,
		receiptRepo: receiptRepo,
		printerType: printerType,
		charWidth:   charWidth,
		storeName:   storeName,
	}
}

// PrinterStatus returns the current printer status information
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
	}
}

// PrintReceipt fetches a settled sale's receipt and prints it
func (s *PrinterService) PrintReceipt(ctx context.Context, saleID uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetBySaleID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}

	data := s.FormatReceipt(receipt)
	if err := s.printer.Print(data); err != nil {
		return receipt, fmt.Errorf("receipt print failed: %w", err)
	}

	return receipt, nil
}

// FormatReceipt renders a receipt snapshot as an ESC/POS byte stream
func (s *PrinterService) FormatReceipt(r *entity.Receipt) []byte {
	doc := printer.NewReceiptDocument(s.charWidth)
	doc.Header(s.storeName, r.Number, r.IssuedAt.Format("2006-01-02 15:04"), r.SellerName)

	for _, line := range r.Lines {
		doc.Item(line.Quantity, fmt.Sprintf("%s (%s)", line.ProductName, line.PackagingLabel), line.LineTotal.String(), line.UnitPrice.String())
	}

	doc.Subtotal(r.Subtotal.String())
	if r.DiscountKind != nil {
		label := "Remise"
		if r.DiscountValue != nil {
			label = fmt.Sprintf("Remise (%s %d)", r.DiscountKind.String(), *r.DiscountValue)
		}
		doc.Discount(label, r.DiscountAmount.String())
	}
	doc.Total(r.Total.String())

	for _, p := range r.Payments {
		label := p.Mode.String()
		if p.Reference != nil {
			label = label + " " + *p.Reference
		}
		doc.Payment(label, p.Amount.String())
	}

	doc.Paid(r.AmountPaid.String())
	if r.ChangeDue.IsPositive() {
		doc.Change(r.ChangeDue.String())
	}

	doc.Footer("Merci de votre visite !")
	return doc.Bytes()
}
