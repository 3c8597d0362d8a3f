package entity

import (
	"time"

	"github.com/caveo/pos-api/internal/domain/enum"
	"github.com/caveo/pos-api/internal/domain/money"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Receipt is the denormalized snapshot of a settled sale, projected
// exactly once at the Draft -> Paid transition. Every field is copied
// by value: product names and prices on a receipt never change, no
// matter what happens to the catalog afterwards.
type Receipt struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	SaleID         uuid.UUID          `gorm:"type:uuid;uniqueIndex;not null" json:"sale_id"`
	Number         string             `gorm:"size:100;not null" json:"number"`
	IssuedAt       time.Time          `gorm:"not null" json:"issued_at"`
	SellerName     string             `gorm:"size:255;not null" json:"seller_name"`
	Subtotal       money.Money        `gorm:"not null" json:"subtotal"`
	DiscountKind   *enum.DiscountKind `json:"discount_kind,omitempty"`
	DiscountValue  *int64             `json:"discount_value,omitempty"`
	DiscountAmount money.Money        `gorm:"default:0" json:"discount_amount"`
	Total          money.Money        `gorm:"not null" json:"total"`
	AmountPaid     money.Money        `gorm:"not null" json:"amount_paid"`
	ChangeDue      money.Money        `gorm:"default:0" json:"change_due"`
	CreatedAt      time.Time          `json:"created_at"`

	// Relationships
	Lines    []ReceiptLine    `gorm:"foreignKey:ReceiptID" json:"lines"`
	Payments []ReceiptPayment `gorm:"foreignKey:ReceiptID" json:"payments"`
}

// BeforeCreate generates a UUID before creating a new receipt
func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Receipt model
func (Receipt) TableName() string {
	return "receipts"
}

// ReceiptLine is a flattened copy of a sale line at settlement time
type ReceiptLine struct {
	ID             uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptID      uuid.UUID   `gorm:"type:uuid;not null;index" json:"receipt_id"`
	ProductName    string      `gorm:"size:255;not null" json:"product_name"`
	PackagingLabel string      `gorm:"size:100;not null" json:"packaging_label"`
	Quantity       int         `gorm:"not null" json:"quantity"`
	UnitPrice      money.Money `gorm:"not null" json:"unit_price"`
	LineTotal      money.Money `gorm:"not null" json:"line_total"`
}

// BeforeCreate generates a UUID before creating a new receipt line
func (l *ReceiptLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReceiptLine model
func (ReceiptLine) TableName() string {
	return "receipt_lines"
}

// ReceiptPayment is a flattened copy of a recorded payment
type ReceiptPayment struct {
	ID        uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptID uuid.UUID        `gorm:"type:uuid;not null;index" json:"receipt_id"`
	Mode      enum.PaymentMode `gorm:"not null" json:"mode"`
	Amount    money.Money      `gorm:"not null" json:"amount"`
	Reference *string          `gorm:"size:255" json:"reference,omitempty"`
}

// BeforeCreate generates a UUID before creating a new receipt payment
func (p *ReceiptPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReceiptPayment model
func (ReceiptPayment) TableName() string {
	return "receipt_payments"
}

// ProjectReceipt builds the immutable snapshot from a Paid sale. The
// sale must be loaded with its seller, lines (including product and
// packaging unit) and payments. Returns false when the sale is not in
// the Paid state.
func ProjectReceipt(sale *Sale) (*Receipt, bool) {
	if sale.Status != enum.SaleStatusPaid {
		return nil, false
	}

	issuedAt := time.Now()
	if sale.SettledAt != nil {
		issuedAt = *sale.SettledAt
	}

	receipt := &Receipt{
		SaleID:         sale.ID,
		Number:         sale.Number,
		IssuedAt:       issuedAt,
		SellerName:     sale.Seller.FullName(),
		Subtotal:       sale.Subtotal(),
		DiscountAmount: sale.DiscountAmount(),
		Total:          sale.Total(),
		AmountPaid:     sale.AmountPaid(),
		ChangeDue:      sale.ChangeDue(),
	}

	if sale.DiscountKind != nil {
		kind := *sale.DiscountKind
		value := sale.DiscountValue
		receipt.DiscountKind = &kind
		receipt.DiscountValue = &value
	}

	for i := range sale.Lines {
		line := &sale.Lines[i]
		receipt.Lines = append(receipt.Lines, ReceiptLine{
			ProductName:    line.Product.Name,
			PackagingLabel: line.PackagingUnit.Label,
			Quantity:       line.Quantity,
			UnitPrice:      line.UnitPrice,
			LineTotal:      line.LineTotal(),
		})
	}

	for i := range sale.Payments {
		p := &sale.Payments[i]
		var ref *string
		if p.Reference != nil {
			r := *p.Reference
			ref = &r
		}
		receipt.Payments = append(receipt.Payments, ReceiptPayment{
			Mode:      p.Mode,
			Amount:    p.Amount,
			Reference: ref,
		})
	}

	return receipt, true
}
