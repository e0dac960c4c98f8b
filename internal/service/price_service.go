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

// Notifier enqueues decision emails; satisfied by worker.Dispatcher.
type Notifier interface {
	EnqueueEmail(ctx context.Context, payload interface{}) error
}

type PriceService interface {
	Submit(ctx context.Context, submitterID uuid.UUID, req dto.SubmitPriceRequest) (*dto.PriceResponse, error)
	Validate(ctx context.Context, id, validatorID uuid.UUID, req dto.ValidatePriceRequest) (*dto.PriceResponse, error)
	Reject(ctx context.Context, id, validatorID uuid.UUID, req dto.RejectPriceRequest) (*dto.PriceResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.PriceResponse, error)
	ListValidated(ctx context.Context, f dto.PriceFilter) ([]dto.PriceResponse, int64, error)
	ListPending(ctx context.Context, f dto.PriceFilter) ([]dto.PriceResponse, int64, error)
}

type priceService struct {
	prices        repository.PriceRepository
	catalog       repository.CatalogRepository
	geo           repository.GeoRepository
	users         repository.UserRepository
	contributions repository.ContributionRepository
	notifier      Notifier
}

func NewPriceService(
	prices repository.PriceRepository,
	catalog repository.CatalogRepository,
	geo repository.GeoRepository,
	users repository.UserRepository,
	contributions repository.ContributionRepository,
	notifier Notifier,
) PriceService {
	return &priceService{
		prices:        prices,
		catalog:       catalog,
		geo:           geo,
		users:         users,
		contributions: contributions,
		notifier:      notifier,
	}
}

// Submit stores a new observation in pending state. The five mandatory fields
// were already shape-checked by binding; here the three references must
// resolve to live rows.
func (s *priceService) Submit(ctx context.Context, submitterID uuid.UUID, req dto.SubmitPriceRequest) (*dto.PriceResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, ErrInvalidReference
	}
	localityID, err := uuid.Parse(req.LocalityID)
	if err != nil {
		return nil, ErrInvalidReference
	}
	unitID, err := uuid.Parse(req.UnitID)
	if err != nil {
		return nil, ErrInvalidReference
	}

	if _, err := s.catalog.FindProductByID(ctx, productID); err != nil {
		return nil, fmt.Errorf("%w: product %s", ErrInvalidReference, req.ProductID)
	}
	if _, err := s.geo.FindLocalityByID(ctx, localityID); err != nil {
		return nil, fmt.Errorf("%w: locality %s", ErrInvalidReference, req.LocalityID)
	}
	if _, err := s.catalog.FindUnitByID(ctx, unitID); err != nil {
		return nil, fmt.Errorf("%w: unit %s", ErrInvalidReference, req.UnitID)
	}

	observedAt, err := time.Parse("2006-01-02", req.ObservedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid observed_at: %w", err)
	}

	price := &model.Price{
		ProductID:   productID,
		LocalityID:  localityID,
		UnitID:      unitID,
		Amount:      req.Amount,
		ObservedAt:  observedAt,
		SubmitterID: submitterID,
		Status:      model.StatusPending,
		Comment:     req.Comment,
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

// Validate moves a pending observation to validated. The conditional update
// guarantees a row transitions at most once: losing a moderation race yields
// ErrAlreadyProcessed, a wrong id ErrNotFound.
func (s *priceService) Validate(ctx context.Context, id, validatorID uuid.UUID, req dto.ValidatePriceRequest) (*dto.PriceResponse, error) {
	return s.decide(ctx, id, validatorID, model.StatusValidated, req.Comment, nil)
}

// Reject moves a pending observation to rejected. A reason is mandatory — it
// is what the contributor sees in the decision email.
func (s *priceService) Reject(ctx context.Context, id, validatorID uuid.UUID, req dto.RejectPriceRequest) (*dto.PriceResponse, error) {
	if req.Reason == "" {
		return nil, ErrReasonRequired
	}
	return s.decide(ctx, id, validatorID, model.StatusRejected, nil, &req.Reason)
}

func (s *priceService) decide(ctx context.Context, id, validatorID uuid.UUID, to string, comment, reason *string) (*dto.PriceResponse, error) {
	affected, err := s.prices.Transition(ctx, id, to, validatorID, time.Now().UTC(), comment, reason)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// Distinguish a missing row from one already decided.
		if _, ferr := s.prices.FindByID(ctx, id); ferr != nil {
			if errors.Is(ferr, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, ferr
		}
		return nil, ErrAlreadyProcessed
	}

	price, err := s.prices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.notifyDecision(price)

	resp := toPriceResponse(price)
	return &resp, nil
}

// notifyDecision enqueues the contributor's decision email. Fire-and-forget:
// a full queue or dead Redis never fails the moderation call.
func (s *priceService) notifyDecision(price *model.Price) {
	if s.notifier == nil {
		return
	}
	submitter := price.Submitter
	if submitter.Email == nil {
		return
	}

	// Missing preference row means decision emails are on.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if pref, err := s.contributions.GetPreferences(ctx, price.SubmitterID); err == nil && !pref.EmailOnDecision {
		return
	}

	var subject, body string
	if price.Status == model.StatusValidated {
		subject = "Your price submission was validated"
		body = fmt.Sprintf(
			"Hello %s,\n\nYour price of %s for %s in %s has been validated and is now publicly visible.\n",
			submitter.Username, price.Amount.StringFixed(2), price.Product.Name, price.Locality.Name)
	} else {
		reason := ""
		if price.RejectionReason != nil {
			reason = *price.RejectionReason
		}
		subject = "Your price submission was rejected"
		body = fmt.Sprintf(
			"Hello %s,\n\nYour price of %s for %s in %s has been rejected.\nReason: %s\n",
			submitter.Username, price.Amount.StringFixed(2), price.Product.Name, price.Locality.Name, reason)
	}

	payload := worker.EmailJobPayload{ToEmail: *submitter.Email, Subject: subject, Body: body}
	if err := s.notifier.EnqueueEmail(ctx, payload); err != nil {
		log.Warn().Err(err).Str("price_id", price.ID.String()).Msg("failed to enqueue decision email")
	}
}

func (s *priceService) GetByID(ctx context.Context, id uuid.UUID) (*dto.PriceResponse, error) {
	price, err := s.prices.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	resp := toPriceResponse(price)
	return &resp, nil
}

func (s *priceService) ListValidated(ctx context.Context, f dto.PriceFilter) ([]dto.PriceResponse, int64, error) {
	return s.list(ctx, model.StatusValidated, f)
}

func (s *priceService) ListPending(ctx context.Context, f dto.PriceFilter) ([]dto.PriceResponse, int64, error) {
	return s.list(ctx, model.StatusPending, f)
}

func (s *priceService) list(ctx context.Context, status string, f dto.PriceFilter) ([]dto.PriceResponse, int64, error) {
	f.Clamp()
	prices, total, err := s.prices.List(ctx, status, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.PriceResponse, len(prices))
	for i := range prices {
		out[i] = toPriceResponse(&prices[i])
	}
	return out, total, nil
}

func toPriceResponse(p *model.Price) dto.PriceResponse {
	resp := dto.PriceResponse{
		ID:              p.ID.String(),
		Product:         p.Product.Name,
		ProductID:       p.ProductID.String(),
		Locality:        p.Locality.Name,
		LocalityID:      p.LocalityID.String(),
		Unit:            p.Unit.Name,
		UnitID:          p.UnitID.String(),
		Amount:          p.Amount,
		ObservedAt:      p.ObservedAt.Format("2006-01-02"),
		Status:          p.Status,
		Comment:         p.Comment,
		Submitter:       p.Submitter.Username,
		RejectionReason: p.RejectionReason,
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
	}
	if p.Validator != nil {
		v := p.Validator.Username
		resp.Validator = &v
	}
	if p.ValidatedAt != nil {
		v := p.ValidatedAt.Format(time.RFC3339)
		resp.ValidatedAt = &v
	}
	return resp
}
