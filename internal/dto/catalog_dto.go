package dto

// ─── Products ────────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name       string  `json:"name"        validate:"required,min=2,max=120"`
	CategoryID *string `json:"category_id" validate:"omitempty,uuid"`
	Essential  bool    `json:"essential"`
}

type UpdateProductRequest struct {
	Name       *string `json:"name"        validate:"omitempty,min=2,max=120"`
	CategoryID *string `json:"category_id" validate:"omitempty,uuid"`
	Essential  *bool   `json:"essential"`
}

type ProductResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Slug      string  `json:"slug"`
	Category  *string `json:"category"`
	Essential bool    `json:"essential"`
	Active    bool    `json:"active"`
}

type ProductFilter struct {
	Name       string `form:"name"`
	CategoryID string `form:"category_id" validate:"omitempty,uuid"`
	Essential  string `form:"essential"   validate:"omitempty,oneof=true false"`
	Pagination
}

// ─── Categories ──────────────────────────────────────────────────────────────

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=120"`
}

type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ─── Units ───────────────────────────────────────────────────────────────────

type CreateUnitRequest struct {
	Name   string `json:"name"   validate:"required,min=1,max=60"`
	Abbrev string `json:"abbrev" validate:"required,min=1,max=12"`
}

type UnitResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Abbrev string `json:"abbrev"`
}
