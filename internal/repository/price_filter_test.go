package repository

import (
	"testing"

	"localprice/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceConditionsEmptyFilter(t *testing.T) {
	conds := PriceConditions(dto.PriceFilter{})
	assert.Empty(t, conds, "absent fields must add no constraint")
}

func TestPriceConditionsOneFragmentPerField(t *testing.T) {
	f := dto.PriceFilter{
		ProductID:  "3f0b54f8-0000-0000-0000-000000000001",
		CategoryID: "3f0b54f8-0000-0000-0000-000000000002",
		LocalityID: "3f0b54f8-0000-0000-0000-000000000003",
		RegionID:   "3f0b54f8-0000-0000-0000-000000000004",
		DateFrom:   "2026-01-01",
		DateTo:     "2026-02-01",
		MinAmount:  "100",
		MaxAmount:  "900",
	}
	conds := PriceConditions(f)
	require.Len(t, conds, 8, "each present field contributes exactly one predicate")

	for _, c := range conds {
		assert.NotEmpty(t, c.Expr)
		assert.NotEmpty(t, c.Args)
	}
}

func TestPriceConditionsSingleField(t *testing.T) {
	cases := []struct {
		name   string
		filter dto.PriceFilter
	}{
		{"product", dto.PriceFilter{ProductID: "3f0b54f8-0000-0000-0000-000000000001"}},
		{"category", dto.PriceFilter{CategoryID: "3f0b54f8-0000-0000-0000-000000000002"}},
		{"locality", dto.PriceFilter{LocalityID: "3f0b54f8-0000-0000-0000-000000000003"}},
		{"region", dto.PriceFilter{RegionID: "3f0b54f8-0000-0000-0000-000000000004"}},
		{"date_from", dto.PriceFilter{DateFrom: "2026-01-01"}},
		{"date_to", dto.PriceFilter{DateTo: "2026-02-01"}},
		{"min_amount", dto.PriceFilter{MinAmount: "50"}},
		{"max_amount", dto.PriceFilter{MaxAmount: "500"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			conds := PriceConditions(tc.filter)
			assert.Len(t, conds, 1)
		})
	}
}

// Adding a second filter field must keep the first field's predicate intact:
// fields compose with AND, they never replace one another.
func TestPriceConditionsCompose(t *testing.T) {
	one := PriceConditions(dto.PriceFilter{ProductID: "3f0b54f8-0000-0000-0000-000000000001"})
	two := PriceConditions(dto.PriceFilter{
		ProductID:  "3f0b54f8-0000-0000-0000-000000000001",
		LocalityID: "3f0b54f8-0000-0000-0000-000000000003",
	})

	require.Len(t, one, 1)
	require.Len(t, two, 2)
	assert.Contains(t, exprsOf(two), one[0].Expr)
}

func TestPriceConditionsCategoryUsesSubquery(t *testing.T) {
	conds := PriceConditions(dto.PriceFilter{CategoryID: "3f0b54f8-0000-0000-0000-000000000002"})
	require.Len(t, conds, 1)
	assert.Contains(t, conds[0].Expr, "product_id IN")

	conds = PriceConditions(dto.PriceFilter{RegionID: "3f0b54f8-0000-0000-0000-000000000004"})
	require.Len(t, conds, 1)
	assert.Contains(t, conds[0].Expr, "locality_id IN")
}

func exprsOf(conds []Condition) []string {
	out := make([]string, len(conds))
	for i, c := range conds {
		out[i] = c.Expr
	}
	return out
}
