package model

import (
	"time"

	"github.com/google/uuid"
)

// Region is the top of the geographic hierarchy.
type Region struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"uniqueIndex;not null"`
	Slug      string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Locality is where a price was observed (a market town). Coordinates feed
// the public map projection.
type Locality struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string     `gorm:"index;not null"`
	Slug      string     `gorm:"uniqueIndex;not null"`
	RegionID  *uuid.UUID `gorm:"type:uuid;index"`
	Latitude  *float64
	Longitude *float64
	CreatedAt time.Time
	UpdatedAt time.Time

	Region *Region `gorm:"foreignKey:RegionID"`
}

func (Locality) TableName() string { return "localities" }
