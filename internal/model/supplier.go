package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Supplier is a wholesale source whose posted prices feed the cross-supplier
// comparison endpoints.
type Supplier struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string     `gorm:"uniqueIndex;not null"`
	LocalityID *uuid.UUID `gorm:"type:uuid;index"`
	Phone      *string
	Active     bool `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Locality *Locality `gorm:"foreignKey:LocalityID"`
}

// SupplierPrice is a wholesale price posted by a supplier for one product.
type SupplierPrice struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SupplierID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	UnitID     uuid.UUID       `gorm:"type:uuid;not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ObservedAt time.Time       `gorm:"type:date;not null"`
	CreatedAt  time.Time

	Supplier Supplier `gorm:"foreignKey:SupplierID"`
	Product  Product  `gorm:"foreignKey:ProductID"`
	Unit     Unit     `gorm:"foreignKey:UnitID"`
}

// SupplierAvailability records a stock/availability window for one product at
// one supplier.
type SupplierAvailability struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SupplierID uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index"`
	InStock    bool      `gorm:"not null;default:true"`
	From       *time.Time `gorm:"type:date"`
	Until      *time.Time `gorm:"type:date"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Supplier Supplier `gorm:"foreignKey:SupplierID"`
	Product  Product  `gorm:"foreignKey:ProductID"`
}

func (SupplierAvailability) TableName() string { return "supplier_availabilities" }
