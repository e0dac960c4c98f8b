package model

import (
	"time"

	"github.com/google/uuid"
)

// ContributionRequest is a user's application for the contributor role.
// Same lifecycle shape as Price (pending → approved|rejected, terminal once
// decided) but it governs a role grant, not a price's validity. At most one
// pending request may exist per applicant.
type ContributionRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ApplicantID uuid.UUID `gorm:"type:uuid;not null;index"`
	Motivation  *string
	Status      string `gorm:"type:varchar(20);not null;default:'pending';index"`

	ReviewerID *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt *time.Time
	Reason     *string

	CreatedAt time.Time

	Applicant User  `gorm:"foreignKey:ApplicantID"`
	Reviewer  *User `gorm:"foreignKey:ReviewerID"`
}

// NotificationPreference controls which decision emails a user receives.
// Missing row = defaults (decision emails on, newsletter off).
type NotificationPreference struct {
	UserID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmailOnDecision   bool      `gorm:"not null;default:true"`
	EmailOnNewsletter bool      `gorm:"not null;default:false"`
	UpdatedAt         time.Time
}
