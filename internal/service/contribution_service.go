package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"localprice/internal/dto"
	"localprice/internal/model"
	"localprice/internal/repository"
	"localprice/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ContributionService interface {
	Apply(ctx context.Context, applicantID uuid.UUID, req dto.ApplyContributionRequest) (*dto.ContributionResponse, error)
	Approve(ctx context.Context, id, reviewerID uuid.UUID) (*dto.ContributionResponse, error)
	Reject(ctx context.Context, id, reviewerID uuid.UUID, req dto.ReviewContributionRequest) (*dto.ContributionResponse, error)
	ListPending(ctx context.Context, p dto.Pagination) ([]dto.ContributionResponse, int64, error)

	GetPreferences(ctx context.Context, userID uuid.UUID) (dto.PreferencesResponse, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, req dto.PreferencesRequest) (dto.PreferencesResponse, error)
}

type contributionService struct {
	contributions repository.ContributionRepository
	users         repository.UserRepository
	notifier      Notifier
}

func NewContributionService(contributions repository.ContributionRepository, users repository.UserRepository, notifier Notifier) ContributionService {
	return &contributionService{contributions: contributions, users: users, notifier: notifier}
}

// Apply opens a contribution request. One pending request per applicant: a
// second application while the first is undecided is a conflict. The partial
// unique index backs this up against concurrent applications.
func (s *contributionService) Apply(ctx context.Context, applicantID uuid.UUID, req dto.ApplyContributionRequest) (*dto.ContributionResponse, error) {
	pending, err := s.contributions.HasPending(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrDuplicatePending
	}

	cr := &model.ContributionRequest{
		ApplicantID: applicantID,
		Motivation:  req.Motivation,
		Status:      model.StatusPending,
	}
	if err := s.contributions.Create(ctx, cr); err != nil {
		return nil, err
	}

	created, err := s.contributions.FindByID(ctx, cr.ID)
	if err != nil {
		return nil, err
	}
	resp := toContributionResponse(created)
	return &resp, nil
}

// Approve decides the request and grants the contributor role through the
// pivot. The grant records the reviewing admin.
func (s *contributionService) Approve(ctx context.Context, id, reviewerID uuid.UUID) (*dto.ContributionResponse, error) {
	cr, err := s.decide(ctx, id, reviewerID, model.StatusApproved, nil)
	if err != nil {
		return nil, err
	}

	role, err := s.users.FindRoleByName(ctx, model.RoleContributor)
	if err != nil {
		return nil, err
	}
	if err := s.users.GrantRole(ctx, cr.ApplicantID, role.ID, &reviewerID); err != nil {
		return nil, err
	}

	s.notifyDecision(cr)
	resp := toContributionResponse(cr)
	return &resp, nil
}

func (s *contributionService) Reject(ctx context.Context, id, reviewerID uuid.UUID, req dto.ReviewContributionRequest) (*dto.ContributionResponse, error) {
	if req.Reason == "" {
		return nil, ErrReasonRequired
	}
	cr, err := s.decide(ctx, id, reviewerID, model.StatusRejected, &req.Reason)
	if err != nil {
		return nil, err
	}

	s.notifyDecision(cr)
	resp := toContributionResponse(cr)
	return &resp, nil
}

func (s *contributionService) decide(ctx context.Context, id, reviewerID uuid.UUID, to string, reason *string) (*model.ContributionRequest, error) {
	affected, err := s.contributions.Transition(ctx, id, to, reviewerID, time.Now().UTC(), reason)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		if _, ferr := s.contributions.FindByID(ctx, id); ferr != nil {
			if errors.Is(ferr, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, ferr
		}
		return nil, ErrAlreadyProcessed
	}
	return s.contributions.FindByID(ctx, id)
}

func (s *contributionService) notifyDecision(cr *model.ContributionRequest) {
	if s.notifier == nil || cr.Applicant.Email == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if pref, err := s.contributions.GetPreferences(ctx, cr.ApplicantID); err == nil && !pref.EmailOnDecision {
		return
	}

	var subject, body string
	if cr.Status == model.StatusApproved {
		subject = "Your contributor application was approved"
		body = fmt.Sprintf("Hello %s,\n\nYou can now submit prices. Thank you for contributing.\n", cr.Applicant.Username)
	} else {
		reason := ""
		if cr.Reason != nil {
			reason = *cr.Reason
		}
		subject = "Your contributor application was rejected"
		body = fmt.Sprintf("Hello %s,\n\nYour application was rejected.\nReason: %s\n", cr.Applicant.Username, reason)
	}

	payload := worker.EmailJobPayload{ToEmail: *cr.Applicant.Email, Subject: subject, Body: body}
	if err := s.notifier.EnqueueEmail(ctx, payload); err != nil {
		log.Warn().Err(err).Str("request_id", cr.ID.String()).Msg("failed to enqueue decision email")
	}
}

func (s *contributionService) ListPending(ctx context.Context, p dto.Pagination) ([]dto.ContributionResponse, int64, error) {
	p.Clamp()
	requests, total, err := s.contributions.ListPending(ctx, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.ContributionResponse, len(requests))
	for i := range requests {
		out[i] = toContributionResponse(&requests[i])
	}
	return out, total, nil
}

func (s *contributionService) GetPreferences(ctx context.Context, userID uuid.UUID) (dto.PreferencesResponse, error) {
	pref, err := s.contributions.GetPreferences(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Missing row = defaults
			return dto.PreferencesResponse{EmailOnDecision: true, EmailOnNewsletter: false}, nil
		}
		return dto.PreferencesResponse{}, err
	}
	return dto.PreferencesResponse{
		EmailOnDecision:   pref.EmailOnDecision,
		EmailOnNewsletter: pref.EmailOnNewsletter,
	}, nil
}

func (s *contributionService) UpdatePreferences(ctx context.Context, userID uuid.UUID, req dto.PreferencesRequest) (dto.PreferencesResponse, error) {
	current, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return dto.PreferencesResponse{}, err
	}

	pref := &model.NotificationPreference{
		UserID:            userID,
		EmailOnDecision:   current.EmailOnDecision,
		EmailOnNewsletter: current.EmailOnNewsletter,
	}
	if req.EmailOnDecision != nil {
		pref.EmailOnDecision = *req.EmailOnDecision
	}
	if req.EmailOnNewsletter != nil {
		pref.EmailOnNewsletter = *req.EmailOnNewsletter
	}
	if err := s.contributions.SavePreferences(ctx, pref); err != nil {
		return dto.PreferencesResponse{}, err
	}
	return dto.PreferencesResponse{
		EmailOnDecision:   pref.EmailOnDecision,
		EmailOnNewsletter: pref.EmailOnNewsletter,
	}, nil
}

func toContributionResponse(cr *model.ContributionRequest) dto.ContributionResponse {
	resp := dto.ContributionResponse{
		ID:         cr.ID.String(),
		Applicant:  cr.Applicant.Username,
		Motivation: cr.Motivation,
		Status:     cr.Status,
		Reason:     cr.Reason,
		CreatedAt:  cr.CreatedAt.Format(time.RFC3339),
	}
	if cr.Reviewer != nil {
		v := cr.Reviewer.Username
		resp.Reviewer = &v
	}
	if cr.ReviewedAt != nil {
		v := cr.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	return resp
}
