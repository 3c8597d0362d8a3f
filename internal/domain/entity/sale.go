package entity

import (
	"time"

	"github.com/caveo/pos-api/internal/domain/enum"
	"github.com/caveo/pos-api/internal/domain/money"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sale represents one register transaction, from empty draft to a
// settled (Paid) or discarded (Cancelled) state. Monetary fields are
// never stored: subtotal, total and balance are always derived fresh
// from the lines and payments loaded with the sale.
type Sale struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	Number        string             `gorm:"size:100;unique;not null" json:"number"`
	SellerID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"seller_id"`
	Status        enum.SaleStatus    `gorm:"default:0;index" json:"status"`
	DiscountKind  *enum.DiscountKind `json:"discount_kind,omitempty"`
	DiscountValue int64              `gorm:"default:0" json:"discount_value"`
	SettledAt     *time.Time         `json:"settled_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	DeletedAt     gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Seller   User       `gorm:"foreignKey:SellerID" json:"-"`
	Lines    []SaleLine `gorm:"foreignKey:SaleID" json:"lines"`
	Payments []Payment  `gorm:"foreignKey:SaleID" json:"payments"`
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// Discount returns the active discount, or nil when none is applied
func (s *Sale) Discount() *Discount {
	if s.DiscountKind == nil {
		return nil
	}
	return &Discount{Kind: *s.DiscountKind, Value: s.DiscountValue}
}

// Subtotal is the sum of line totals before the sale discount
func (s *Sale) Subtotal() money.Money {
	var sum money.Money
	for i := range s.Lines {
		sum = sum.Add(s.Lines[i].LineTotal())
	}
	return sum
}

// DiscountAmount resolves the active discount against the subtotal
func (s *Sale) DiscountAmount() money.Money {
	d := s.Discount()
	if d == nil {
		return money.Zero
	}
	return d.Resolve(s.Subtotal())
}

// Total is subtotal minus the discount amount
func (s *Sale) Total() money.Money {
	return s.Subtotal().Sub(s.DiscountAmount())
}

// AmountPaid is the sum of recorded payment amounts
func (s *Sale) AmountPaid() money.Money {
	var sum money.Money
	for i := range s.Payments {
		sum = sum.Add(s.Payments[i].Amount)
	}
	return sum
}

// BalanceDue is total minus amount paid. Payment recording clamps to
// the balance, so this never goes negative.
func (s *Sale) BalanceDue() money.Money {
	return s.Total().Sub(s.AmountPaid())
}

// IsFullyPaid reports whether the balance due is zero
func (s *Sale) IsFullyPaid() bool {
	return s.BalanceDue().IsZero()
}

// HasPayments reports whether any payment has been recorded
func (s *Sale) HasPayments() bool {
	return len(s.Payments) > 0
}

// ChangeDue is the cash surplus handed back at the register: the sum of
// tendered cash in excess of the amounts actually recorded.
func (s *Sale) ChangeDue() money.Money {
	var change money.Money
	for i := range s.Payments {
		change = change.Add(s.Payments[i].ChangeDue())
	}
	return change
}

// FindLine returns the line matching a (product, packaging unit) pair,
// the merge key used when adding lines.
func (s *Sale) FindLine(productID, packagingUnitID uuid.UUID) *SaleLine {
	for i := range s.Lines {
		if s.Lines[i].ProductID == productID && s.Lines[i].PackagingUnitID == packagingUnitID {
			return &s.Lines[i]
		}
	}
	return nil
}

// LineByID returns the line with the given id, or nil
func (s *Sale) LineByID(lineID uuid.UUID) *SaleLine {
	for i := range s.Lines {
		if s.Lines[i].ID == lineID {
			return &s.Lines[i]
		}
	}
	return nil
}

// SaleLine is one (product, packaging unit, quantity) entry in the cart.
// UnitPrice is captured when the line is added and is immune to later
// catalog price changes.
type SaleLine struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	SaleID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	PackagingUnitID uuid.UUID      `gorm:"type:uuid;not null;index" json:"packaging_unit_id"`
	Quantity        int            `gorm:"not null" json:"quantity"`
	UnitPrice       money.Money    `gorm:"not null" json:"unit_price"`
	LineDiscount    money.Money    `gorm:"default:0" json:"line_discount"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Sale          Sale          `gorm:"foreignKey:SaleID" json:"-"`
	Product       Product       `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	PackagingUnit PackagingUnit `gorm:"foreignKey:PackagingUnitID" json:"packaging_unit,omitempty"`
}

// BeforeCreate generates a UUID before creating a new sale line
func (l *SaleLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleLine model
func (SaleLine) TableName() string {
	return "sale_lines"
}

// LineTotal is unit price times quantity minus the line discount
func (l *SaleLine) LineTotal() money.Money {
	return l.UnitPrice.MulInt(l.Quantity).Sub(l.LineDiscount)
}

// Payment is one entry in a sale's append-only payment sequence.
// AmountTendered is set for cash only; any surplus over Amount is the
// change handed back, never recorded as part of the amount itself.
type Payment struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	SaleID         uuid.UUID        `gorm:"type:uuid;not null;index" json:"sale_id"`
	Mode           enum.PaymentMode `gorm:"not null" json:"mode"`
	Amount         money.Money      `gorm:"not null" json:"amount"`
	Reference      *string          `gorm:"size:255" json:"reference,omitempty"`
	AmountTendered *money.Money     `json:"amount_tendered,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`

	// Relationships
	Sale Sale `gorm:"foreignKey:SaleID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}

// ChangeDue is the tendered surplus for this payment (cash only)
func (p *Payment) ChangeDue() money.Money {
	if p.AmountTendered == nil {
		return money.Zero
	}
	if change := p.AmountTendered.Sub(p.Amount); change.IsPositive() {
		return change
	}
	return money.Zero
}
