package repository

import (
	"localprice/internal/dto"
)

// Condition is one AND-composed predicate fragment. Keeping the fragments as
// data (instead of chaining on *gorm.DB directly) lets the composition rules
// be tested without a database.
type Condition struct {
	Expr string
	Args []interface{}
}

// PriceConditions translates the sparse filter set into predicate fragments.
// Every present field contributes exactly one fragment; absent fields
// contribute nothing, so omitting a filter can never exclude rows. Category
// and region constraints go through subqueries so no join order matters.
func PriceConditions(f dto.PriceFilter) []Condition {
	var conds []Condition
	if f.ProductID != "" {
		conds = append(conds, Condition{"product_id = ?", []interface{}{f.ProductID}})
	}
	if f.CategoryID != "" {
		conds = append(conds, Condition{
			"product_id IN (SELECT id FROM products WHERE category_id = ?)",
			[]interface{}{f.CategoryID},
		})
	}
	if f.LocalityID != "" {
		conds = append(conds, Condition{"locality_id = ?", []interface{}{f.LocalityID}})
	}
	if f.RegionID != "" {
		conds = append(conds, Condition{
			"locality_id IN (SELECT id FROM localities WHERE region_id = ?)",
			[]interface{}{f.RegionID},
		})
	}
	if f.DateFrom != "" {
		conds = append(conds, Condition{"observed_at >= ?", []interface{}{f.DateFrom}})
	}
	if f.DateTo != "" {
		conds = append(conds, Condition{"observed_at <= ?", []interface{}{f.DateTo}})
	}
	if f.MinAmount != "" {
		conds = append(conds, Condition{"amount >= ?", []interface{}{f.MinAmount}})
	}
	if f.MaxAmount != "" {
		conds = append(conds, Condition{"amount <= ?", []interface{}{f.MaxAmount}})
	}
	return conds
}
