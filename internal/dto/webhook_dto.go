package dto

// KoboSubmission is the flattened form-survey payload posted by the Kobo
// webhook. Select fields answered "other" carry the free-text value in the
// companion *_other field; those auto-create the missing reference row.
type KoboSubmission struct {
	Product       string `json:"product"        validate:"required"`
	ProductOther  string `json:"product_other"`
	Locality      string `json:"locality"       validate:"required"`
	LocalityOther string `json:"locality_other"`
	Unit          string `json:"unit"           validate:"required"`
	UnitOther     string `json:"unit_other"`
	Amount        string `json:"price"          validate:"required,numeric"`
	Date          string `json:"date"           validate:"required,datetime=2006-01-02"`
	Comment       string `json:"comment"`
}
