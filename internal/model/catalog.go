package model

import (
	"time"

	"github.com/google/uuid"
)

// Product is a marketed commodity (e.g. millet, onion). Essential products
// feed the basket index. Rows may be created by admins or auto-created by the
// Kobo webhook when a survey answer is tagged "other".
type Product struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string    `gorm:"uniqueIndex;not null"`
	Slug       string    `gorm:"uniqueIndex;not null"`
	CategoryID *uuid.UUID `gorm:"type:uuid;index"`
	Essential  bool       `gorm:"not null;default:false"`
	Active     bool       `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Category *ProductCategory `gorm:"foreignKey:CategoryID"`
}

type ProductCategory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"uniqueIndex;not null"`
	Slug      string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ProductCategory) TableName() string { return "product_categories" }

// Unit is the measurement unit a price was observed in (kg, sack, liter…).
type Unit struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"uniqueIndex;not null"`
	Abbrev    string    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
