package dto

// ─── Contribution requests ───────────────────────────────────────────────────

type ApplyContributionRequest struct {
	Motivation *string `json:"motivation" validate:"omitempty,max=1000"`
}

type ReviewContributionRequest struct {
	Reason string `json:"reason" validate:"required,min=3"`
}

type ContributionResponse struct {
	ID         string  `json:"id"`
	Applicant  string  `json:"applicant"`
	Motivation *string `json:"motivation,omitempty"`
	Status     string  `json:"status"`
	Reviewer   *string `json:"reviewer,omitempty"`
	ReviewedAt *string `json:"reviewed_at,omitempty"`
	Reason     *string `json:"reason,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

// ─── Notification preferences ────────────────────────────────────────────────

type PreferencesRequest struct {
	EmailOnDecision   *bool `json:"email_on_decision"`
	EmailOnNewsletter *bool `json:"email_on_newsletter"`
}

type PreferencesResponse struct {
	EmailOnDecision   bool `json:"email_on_decision"`
	EmailOnNewsletter bool `json:"email_on_newsletter"`
}
