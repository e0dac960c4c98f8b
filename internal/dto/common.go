package dto

// Pagination is bound from {limit, offset} query parameters.
type Pagination struct {
	Limit  int `form:"limit,default=20" validate:"min=1,max=100"`
	Offset int `form:"offset,default=0" validate:"min=0"`
}

// Clamp coerces out-of-range values to their defaults instead of failing,
// for public read endpoints where a bad limit should not be an error.
func (p *Pagination) Clamp() {
	if p.Limit < 1 || p.Limit > 100 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}
