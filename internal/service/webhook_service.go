package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"localprice/internal/dto"
	"localprice/internal/model"
	"localprice/internal/repository"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// koboUsername is the service account every webhook submission is attributed
// to. Seeded lazily on first ingestion.
const koboUsername = "kobo-collector"

// otherSentinel marks a select answer whose real value lives in the
// companion *_other free-text field.
const otherSentinel = "other"

type WebhookService interface {
	Ingest(ctx context.Context, sub dto.KoboSubmission) (*dto.PriceResponse, error)
}

type webhookService struct {
	prices  repository.PriceRepository
	catalog repository.CatalogRepository
	geo     repository.GeoRepository
	users   repository.UserRepository
}

func NewWebhookService(
	prices repository.PriceRepository,
	catalog repository.CatalogRepository,
	geo repository.GeoRepository,
	users repository.UserRepository,
) WebhookService {
	return &webhookService{prices: prices, catalog: catalog, geo: geo, users: users}
}

// Ingest stores one form-survey answer as a pending observation. Unknown
// reference values answered "other" auto-create their row so field agents
// never lose a submission to a missing dropdown entry. Everything lands in
// pending — the webhook never bypasses moderation.
func (s *webhookService) Ingest(ctx context.Context, sub dto.KoboSubmission) (*dto.PriceResponse, error) {
	amount, err := decimal.NewFromString(sub.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: price %q must be a positive number", ErrValidation, sub.Amount)
	}
	observedAt, err := time.Parse("2006-01-02", sub.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date %q", ErrValidation, sub.Date)
	}

	product, err := s.resolveProduct(ctx, sub.Product, sub.ProductOther)
	if err != nil {
		return nil, err
	}
	locality, err := s.resolveLocality(ctx, sub.Locality, sub.LocalityOther)
	if err != nil {
		return nil, err
	}
	unit, err := s.resolveUnit(ctx, sub.Unit, sub.UnitOther)
	if err != nil {
		return nil, err
	}
	collector, err := s.collectorAccount(ctx)
	if err != nil {
		return nil, err
	}

	price := &model.Price{
		ProductID:   product.ID,
		LocalityID:  locality.ID,
		UnitID:      unit.ID,
		Amount:      amount,
		ObservedAt:  observedAt,
		SubmitterID: collector.ID,
		Status:      model.StatusPending,
	}
	if sub.Comment != "" {
		price.Comment = &sub.Comment
	}
	if err := s.prices.Create(ctx, price); err != nil {
		return nil, err
	}

	created, err := s.prices.FindByID(ctx, price.ID)
	if err != nil {
		return nil, err
	}
	resp := toPriceResponse(created)
	return &resp, nil
}

func (s *webhookService) resolveProduct(ctx context.Context, value, other string) (*model.Product, error) {
	name := pickAnswer(value, other)
	if name == "" {
		return nil, fmt.Errorf("%w: empty product answer", ErrValidation)
	}
	p := &model.Product{Name: name, Slug: slug.Make(name), Active: true}
	if err := s.catalog.FindOrCreateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *webhookService) resolveLocality(ctx context.Context, value, other string) (*model.Locality, error) {
	name := pickAnswer(value, other)
	if name == "" {
		return nil, fmt.Errorf("%w: empty locality answer", ErrValidation)
	}
	l := &model.Locality{Name: name, Slug: slug.Make(name)}
	if err := s.geo.FindOrCreateLocality(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *webhookService) resolveUnit(ctx context.Context, value, other string) (*model.Unit, error) {
	name := pickAnswer(value, other)
	if name == "" {
		return nil, fmt.Errorf("%w: empty unit answer", ErrValidation)
	}
	u := &model.Unit{Name: name, Abbrev: name}
	if err := s.catalog.FindOrCreateUnit(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// pickAnswer returns the free-text companion when the select answered
// "other", the select value itself otherwise.
func pickAnswer(value, other string) string {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, otherSentinel) {
		return strings.TrimSpace(other)
	}
	return value
}

func (s *webhookService) collectorAccount(ctx context.Context) (*model.User, error) {
	user, err := s.users.FindByUsername(ctx, koboUsername)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	collector := &model.User{Username: koboUsername, Active: true}
	if err := s.users.Create(ctx, collector); err != nil {
		return nil, err
	}
	if role, rerr := s.users.FindRoleByName(ctx, model.RoleContributor); rerr == nil {
		if gerr := s.users.GrantRole(ctx, collector.ID, role.ID, nil); gerr != nil {
			return nil, gerr
		}
	}
	return collector, nil
}
