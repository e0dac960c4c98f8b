package dto

// ─── Regions ─────────────────────────────────────────────────────────────────

type CreateRegionRequest struct {
	Name string `json:"name" validate:"required,min=2,max=120"`
}

type RegionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ─── Localities ──────────────────────────────────────────────────────────────

type CreateLocalityRequest struct {
	Name      string   `json:"name"      validate:"required,min=2,max=120"`
	RegionID  *string  `json:"region_id" validate:"omitempty,uuid"`
	Latitude  *float64 `json:"latitude"  validate:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
}

type UpdateLocalityRequest struct {
	Name      *string  `json:"name"      validate:"omitempty,min=2,max=120"`
	RegionID  *string  `json:"region_id" validate:"omitempty,uuid"`
	Latitude  *float64 `json:"latitude"  validate:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
}

type LocalityResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Slug      string   `json:"slug"`
	Region    *string  `json:"region"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}
