package repository

import (
	"context"
	"time"

	"localprice/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContributionRepository interface {
	Create(ctx context.Context, cr *model.ContributionRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ContributionRequest, error)
	HasPending(ctx context.Context, applicantID uuid.UUID) (bool, error)
	ListPending(ctx context.Context, limit, offset int) ([]model.ContributionRequest, int64, error)

	// Transition moves a pending request to approved|rejected; same
	// conditional-update guard as price moderation.
	Transition(ctx context.Context, id uuid.UUID, to string, reviewerID uuid.UUID, at time.Time, reason *string) (int64, error)

	GetPreferences(ctx context.Context, userID uuid.UUID) (*model.NotificationPreference, error)
	SavePreferences(ctx context.Context, p *model.NotificationPreference) error
}

type contributionRepo struct{ db *gorm.DB }

func NewContributionRepository(db *gorm.DB) ContributionRepository {
	return &contributionRepo{db: db}
}

func (r *contributionRepo) Create(ctx context.Context, cr *model.ContributionRequest) error {
	return r.db.WithContext(ctx).Create(cr).Error
}

func (r *contributionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ContributionRequest, error) {
	var cr model.ContributionRequest
	err := r.db.WithContext(ctx).
		Preload("Applicant").Preload("Reviewer").
		First(&cr, "id = ?", id).Error
	return &cr, err
}

func (r *contributionRepo) HasPending(ctx context.Context, applicantID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ContributionRequest{}).
		Where("applicant_id = ? AND status = ?", applicantID, model.StatusPending).
		Count(&count).Error
	return count > 0, err
}

func (r *contributionRepo) ListPending(ctx context.Context, limit, offset int) ([]model.ContributionRequest, int64, error) {
	var requests []model.ContributionRequest
	var total int64

	q := r.db.WithContext(ctx).Model(&model.ContributionRequest{}).
		Where("status = ?", model.StatusPending)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at ASC").Limit(limit).Offset(offset).
		Preload("Applicant").
		Find(&requests).Error
	return requests, total, err
}

func (r *contributionRepo) Transition(ctx context.Context, id uuid.UUID, to string, reviewerID uuid.UUID, at time.Time, reason *string) (int64, error) {
	updates := map[string]interface{}{
		"status":      to,
		"reviewer_id": reviewerID,
		"reviewed_at": at,
	}
	if reason != nil {
		updates["reason"] = reason
	}
	res := r.db.WithContext(ctx).Model(&model.ContributionRequest{}).
		Where("id = ? AND status = ?", id, model.StatusPending).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *contributionRepo) GetPreferences(ctx context.Context, userID uuid.UUID) (*model.NotificationPreference, error) {
	var p model.NotificationPreference
	err := r.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error
	return &p, err
}

func (r *contributionRepo) SavePreferences(ctx context.Context, p *model.NotificationPreference) error {
	return r.db.WithContext(ctx).Save(p).Error
}
