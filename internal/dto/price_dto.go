package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// SubmitPriceRequest carries the five mandatory observation fields; a request
// missing any of them is rejected before storage is touched.
type SubmitPriceRequest struct {
	ProductID  string          `json:"product_id"  validate:"required,uuid"`
	LocalityID string          `json:"locality_id" validate:"required,uuid"`
	UnitID     string          `json:"unit_id"     validate:"required,uuid"`
	Amount     decimal.Decimal `json:"amount"      validate:"required,gt=0"`
	ObservedAt string          `json:"observed_at" validate:"required,datetime=2006-01-02"`
	Comment    *string         `json:"comment"`
}

type ValidatePriceRequest struct {
	Comment *string `json:"comment"`
}

type RejectPriceRequest struct {
	Reason string `json:"reason" validate:"required,min=3"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

// PriceFilter carries the open set of optional filter parameters. Each present
// field is independently appended to the query predicate with AND semantics;
// an absent field means "no constraint".
type PriceFilter struct {
	ProductID  string `form:"product_id"  validate:"omitempty,uuid"`
	CategoryID string `form:"category_id" validate:"omitempty,uuid"`
	LocalityID string `form:"locality_id" validate:"omitempty,uuid"`
	RegionID   string `form:"region_id"   validate:"omitempty,uuid"`
	DateFrom   string `form:"date_from"   validate:"omitempty,datetime=2006-01-02"`
	DateTo     string `form:"date_to"     validate:"omitempty,datetime=2006-01-02"`
	MinAmount  string `form:"min_amount"  validate:"omitempty,numeric"`
	MaxAmount  string `form:"max_amount"  validate:"omitempty,numeric"`
	Pagination
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PriceResponse struct {
	ID              string          `json:"id"`
	Product         string          `json:"product"`
	ProductID       string          `json:"product_id"`
	Locality        string          `json:"locality"`
	LocalityID      string          `json:"locality_id"`
	Unit            string          `json:"unit"`
	UnitID          string          `json:"unit_id"`
	Amount          decimal.Decimal `json:"amount"`
	ObservedAt      string          `json:"observed_at"`
	Status          string          `json:"status"`
	Comment         *string         `json:"comment,omitempty"`
	Submitter       string          `json:"submitter,omitempty"`
	Validator       *string         `json:"validator,omitempty"`
	ValidatedAt     *string         `json:"validated_at,omitempty"`
	RejectionReason *string         `json:"rejection_reason,omitempty"`
	CreatedAt       string          `json:"created_at"`
}
