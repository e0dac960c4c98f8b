package dto

import "github.com/shopspring/decimal"

// PriceSummary is the fixed aggregate shape over validated prices.
type PriceSummary struct {
	Count  int64           `json:"count"`
	Min    decimal.Decimal `json:"min"`
	Max    decimal.Decimal `json:"max"`
	Avg    decimal.Decimal `json:"avg"`
	StdDev decimal.Decimal `json:"stddev"`
}

// EvolutionPoint is one step of the group-by-date average series.
type EvolutionPoint struct {
	Date    string          `json:"date"`
	Average decimal.Decimal `json:"average"`
	Samples int64           `json:"samples"`
}

// MapPoint is the per-locality projection for the public map.
type MapPoint struct {
	LocalityID string          `json:"locality_id"`
	Locality   string          `json:"locality"`
	Latitude   *float64        `json:"latitude"`
	Longitude  *float64        `json:"longitude"`
	Average    decimal.Decimal `json:"average"`
	Samples    int64           `json:"samples"`
}

// CategoryBest is the minimum validated price observed in one category.
type CategoryBest struct {
	CategoryID string          `json:"category_id"`
	Category   string          `json:"category"`
	Product    string          `json:"product"`
	Locality   string          `json:"locality"`
	Amount     decimal.Decimal `json:"amount"`
	ObservedAt string          `json:"observed_at"`
}

// BasketIndex is the average validated price over essential products within a
// trailing window — a cost-of-living proxy.
type BasketIndex struct {
	Average    decimal.Decimal `json:"average"`
	Samples    int64           `json:"samples"`
	Products   int64           `json:"products"`
	WindowDays int             `json:"window_days"`
}

// CheapestOffer is the winning wholesale offer for one product after the
// deterministic tie-break (lowest amount, then most recent date, then lowest
// supplier id).
type CheapestOffer struct {
	ProductID  string          `json:"product_id"`
	Product    string          `json:"product"`
	SupplierID string          `json:"supplier_id"`
	Supplier   string          `json:"supplier"`
	Unit       string          `json:"unit"`
	Amount     decimal.Decimal `json:"amount"`
	ObservedAt string          `json:"observed_at"`
}
