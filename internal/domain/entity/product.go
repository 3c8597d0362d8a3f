package entity

import (
	"time"

	"github.com/caveo/pos-api/internal/domain/money"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a wine in the catalog
type Product struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Slug        string         `gorm:"size:255;unique;not null" json:"slug"`
	Code        string         `gorm:"size:100;unique;not null" json:"code"`
	Appellation *string        `gorm:"size:255" json:"appellation,omitempty"`
	Vintage     *int           `json:"vintage,omitempty"`
	Color       *string        `gorm:"size:50" json:"color,omitempty"`
	Notes       *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	PackagingUnits []PackagingUnit `gorm:"foreignKey:ProductID" json:"packaging_units,omitempty"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// PackagingUnit is a sellable unit of a product (bottle, case, magnum).
// It carries its own barcode and current price; sale lines capture the
// price at add time, so later edits here never touch past sales.
type PackagingUnit struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	ProductID uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	Label     string         `gorm:"size:100;not null" json:"label"`
	Barcode   string         `gorm:"size:100;uniqueIndex" json:"barcode"`
	UnitCount int            `gorm:"default:1" json:"unit_count"`
	Price     money.Money    `gorm:"not null" json:"price"`
	Stock     int            `gorm:"default:0" json:"stock"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new packaging unit
func (u *PackagingUnit) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PackagingUnit model
func (PackagingUnit) TableName() string {
	return "packaging_units"
}
