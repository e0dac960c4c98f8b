package dto

import "github.com/shopspring/decimal"

// ─── Suppliers ───────────────────────────────────────────────────────────────

type CreateSupplierRequest struct {
	Name       string  `json:"name"        validate:"required,min=2,max=120"`
	LocalityID *string `json:"locality_id" validate:"omitempty,uuid"`
	Phone      *string `json:"phone"       validate:"omitempty,min=6,max=20"`
}

type SupplierResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Locality *string `json:"locality"`
	Phone    *string `json:"phone"`
	Active   bool    `json:"active"`
}

// ─── Supplier prices ─────────────────────────────────────────────────────────

type CreateSupplierPriceRequest struct {
	ProductID  string          `json:"product_id"  validate:"required,uuid"`
	UnitID     string          `json:"unit_id"     validate:"required,uuid"`
	Amount     decimal.Decimal `json:"amount"      validate:"required,gt=0"`
	ObservedAt string          `json:"observed_at" validate:"required,datetime=2006-01-02"`
}

type SupplierPriceResponse struct {
	ID         string          `json:"id"`
	SupplierID string          `json:"supplier_id"`
	Supplier   string          `json:"supplier"`
	ProductID  string          `json:"product_id"`
	Product    string          `json:"product"`
	Unit       string          `json:"unit"`
	Amount     decimal.Decimal `json:"amount"`
	ObservedAt string          `json:"observed_at"`
}

// ─── Availability ────────────────────────────────────────────────────────────

type SetAvailabilityRequest struct {
	ProductID string  `json:"product_id" validate:"required,uuid"`
	InStock   bool    `json:"in_stock"`
	From      *string `json:"from"  validate:"omitempty,datetime=2006-01-02"`
	Until     *string `json:"until" validate:"omitempty,datetime=2006-01-02"`
}

type AvailabilityResponse struct {
	ID        string  `json:"id"`
	Supplier  string  `json:"supplier"`
	Product   string  `json:"product"`
	InStock   bool    `json:"in_stock"`
	From      *string `json:"from"`
	Until     *string `json:"until"`
}
