package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Moderation states for prices and contribution requests.
// pending is the only non-terminal state: a row transitions at most once.
const (
	StatusPending   = "pending"
	StatusValidated = "validated"
	StatusRejected  = "rejected"
	StatusApproved  = "approved" // contribution requests only
)

// Price is a single observation submitted by a contributor: one product, one
// locality, one unit, one amount, one observation date. Rows are immutable
// except for the single pending → validated|rejected transition, which also
// stamps the audit fields (validator, timestamp, reason).
type Price struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	LocalityID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	UnitID      uuid.UUID       `gorm:"type:uuid;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ObservedAt  time.Time       `gorm:"type:date;not null;index"`
	SubmitterID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status      string          `gorm:"type:varchar(20);not null;default:'pending';index"`
	Comment     *string

	// Moderation audit fields — set exactly once by the transition
	ValidatorID     *uuid.UUID `gorm:"type:uuid"`
	ValidatedAt     *time.Time
	RejectionReason *string

	CreatedAt time.Time

	Product   Product  `gorm:"foreignKey:ProductID"`
	Locality  Locality `gorm:"foreignKey:LocalityID"`
	Unit      Unit     `gorm:"foreignKey:UnitID"`
	Submitter User     `gorm:"foreignKey:SubmitterID"`
	Validator *User    `gorm:"foreignKey:ValidatorID"`
}
