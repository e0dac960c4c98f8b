package service

import (
	"context"
	"testing"

	"localprice/internal/dto"
	"localprice/internal/model"
	"localprice/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type priceFixture struct {
	svc           PriceService
	prices        *stubPriceRepo
	catalog       *stubCatalogRepo
	geo           *stubGeoRepo
	users         *stubUserRepo
	contributions *stubContributionRepo
	notifier      *stubNotifier

	product  *model.Product
	locality *model.Locality
	unit     *model.Unit
}

func newPriceFixture(t *testing.T) *priceFixture {
	t.Helper()
	f := &priceFixture{
		prices:        newStubPriceRepo(),
		catalog:       newStubCatalogRepo(),
		geo:           newStubGeoRepo(),
		users:         newStubUserRepo(),
		contributions: newStubContributionRepo(),
		notifier:      &stubNotifier{},
	}
	f.svc = NewPriceService(f.prices, f.catalog, f.geo, f.users, f.contributions, f.notifier)

	ctx := context.Background()
	f.product = &model.Product{Name: "Tomato", Slug: "tomato", Active: true}
	require.NoError(t, f.catalog.CreateProduct(ctx, f.product))
	f.locality = &model.Locality{Name: "Kara", Slug: "kara"}
	require.NoError(t, f.geo.CreateLocality(ctx, f.locality))
	f.unit = &model.Unit{Name: "kilogram", Abbrev: "kg"}
	require.NoError(t, f.catalog.CreateUnit(ctx, f.unit))
	return f
}

// seedPending injects a pending observation directly, with the submitter
// association resolved the way the repository's Preload would.
func (f *priceFixture) seedPending(email string) *model.Price {
	mail := email
	p := &model.Price{
		ID:          uuid.New(),
		ProductID:   f.product.ID,
		LocalityID:  f.locality.ID,
		UnitID:      f.unit.ID,
		Amount:      decimal.RequireFromString("350.00"),
		ObservedAt:  mustDate("2026-08-20"),
		SubmitterID: uuid.New(),
		Status:      model.StatusPending,
		Product:     *f.product,
		Locality:    *f.locality,
		Unit:        *f.unit,
		Submitter:   model.User{Username: "ayele", Email: &mail},
	}
	f.prices.prices[p.ID] = p
	return p
}

func TestSubmitCreatesPendingObservation(t *testing.T) {
	f := newPriceFixture(t)
	submitterID := uuid.New()

	resp, err := f.svc.Submit(context.Background(), submitterID, dto.SubmitPriceRequest{
		ProductID:  f.product.ID.String(),
		LocalityID: f.locality.ID.String(),
		UnitID:     f.unit.ID.String(),
		Amount:     decimal.RequireFromString("425.50"),
		ObservedAt: "2026-08-25",
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusPending, resp.Status)
	assert.Equal(t, "425.5", resp.Amount.String())
	assert.Equal(t, "2026-08-25", resp.ObservedAt)

	stored, err := f.prices.FindByID(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, submitterID, stored.SubmitterID)
	assert.Equal(t, model.StatusPending, stored.Status)
}

func TestSubmitRejectsUnknownReferences(t *testing.T) {
	f := newPriceFixture(t)

	base := dto.SubmitPriceRequest{
		ProductID:  f.product.ID.String(),
		LocalityID: f.locality.ID.String(),
		UnitID:     f.unit.ID.String(),
		Amount:     decimal.RequireFromString("100"),
		ObservedAt: "2026-08-25",
	}

	cases := []struct {
		name   string
		mutate func(r *dto.SubmitPriceRequest)
	}{
		{"unknown product", func(r *dto.SubmitPriceRequest) { r.ProductID = uuid.NewString() }},
		{"unknown locality", func(r *dto.SubmitPriceRequest) { r.LocalityID = uuid.NewString() }},
		{"unknown unit", func(r *dto.SubmitPriceRequest) { r.UnitID = uuid.NewString() }},
		{"malformed id", func(r *dto.SubmitPriceRequest) { r.ProductID = "not-a-uuid" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := base
			tc.mutate(&req)
			_, err := f.svc.Submit(context.Background(), uuid.New(), req)
			assert.ErrorIs(t, err, ErrInvalidReference)
		})
	}
}

func TestValidateTransitionsPendingOnly(t *testing.T) {
	f := newPriceFixture(t)
	p := f.seedPending("ayele@example.org")
	validatorID := uuid.New()

	resp, err := f.svc.Validate(context.Background(), p.ID, validatorID, dto.ValidatePriceRequest{})
	require.NoError(t, err)
	assert.Equal(t, model.StatusValidated, resp.Status)
	require.NotNil(t, resp.ValidatedAt)

	stored, _ := f.prices.FindByID(context.Background(), p.ID)
	require.NotNil(t, stored.ValidatorID)
	assert.Equal(t, validatorID, *stored.ValidatorID)
}

func TestSecondDecisionConflicts(t *testing.T) {
	f := newPriceFixture(t)
	p := f.seedPending("ayele@example.org")

	_, err := f.svc.Validate(context.Background(), p.ID, uuid.New(), dto.ValidatePriceRequest{})
	require.NoError(t, err)

	// A losing moderator gets a conflict, not a silent overwrite.
	_, err = f.svc.Reject(context.Background(), p.ID, uuid.New(), dto.RejectPriceRequest{Reason: "duplicate"})
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	_, err = f.svc.Validate(context.Background(), p.ID, uuid.New(), dto.ValidatePriceRequest{})
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
}

func TestDecideUnknownIDIsNotFound(t *testing.T) {
	f := newPriceFixture(t)

	_, err := f.svc.Validate(context.Background(), uuid.New(), uuid.New(), dto.ValidatePriceRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRejectRequiresReason(t *testing.T) {
	f := newPriceFixture(t)
	p := f.seedPending("ayele@example.org")

	_, err := f.svc.Reject(context.Background(), p.ID, uuid.New(), dto.RejectPriceRequest{})
	assert.ErrorIs(t, err, ErrReasonRequired)

	// The row is untouched.
	stored, _ := f.prices.FindByID(context.Background(), p.ID)
	assert.Equal(t, model.StatusPending, stored.Status)
}

func TestRejectStampsReason(t *testing.T) {
	f := newPriceFixture(t)
	p := f.seedPending("ayele@example.org")

	resp, err := f.svc.Reject(context.Background(), p.ID, uuid.New(), dto.RejectPriceRequest{Reason: "implausible amount"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, resp.Status)
	require.NotNil(t, resp.RejectionReason)
	assert.Equal(t, "implausible amount", *resp.RejectionReason)
}

func TestDecisionEnqueuesEmail(t *testing.T) {
	f := newPriceFixture(t)
	p := f.seedPending("ayele@example.org")

	_, err := f.svc.Validate(context.Background(), p.ID, uuid.New(), dto.ValidatePriceRequest{})
	require.NoError(t, err)

	require.Len(t, f.notifier.payloads, 1)
	payload, ok := f.notifier.payloads[0].(worker.EmailJobPayload)
	require.True(t, ok)
	assert.Equal(t, "ayele@example.org", payload.ToEmail)
	assert.Contains(t, payload.Subject, "validated")
}

func TestDecisionEmailHonorsPreference(t *testing.T) {
	f := newPriceFixture(t)
	p := f.seedPending("ayele@example.org")

	require.NoError(t, f.contributions.SavePreferences(context.Background(), &model.NotificationPreference{
		UserID:          p.SubmitterID,
		EmailOnDecision: false,
	}))

	_, err := f.svc.Validate(context.Background(), p.ID, uuid.New(), dto.ValidatePriceRequest{})
	require.NoError(t, err)
	assert.Empty(t, f.notifier.payloads)
}

func TestDecisionEmailSkippedWithoutAddress(t *testing.T) {
	f := newPriceFixture(t)
	p := f.seedPending("ayele@example.org")
	p.Submitter.Email = nil

	_, err := f.svc.Validate(context.Background(), p.ID, uuid.New(), dto.ValidatePriceRequest{})
	require.NoError(t, err)
	assert.Empty(t, f.notifier.payloads)
}

func TestGetByIDUnknownIsNotFound(t *testing.T) {
	f := newPriceFixture(t)

	_, err := f.svc.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListValidatedFiltersByStatus(t *testing.T) {
	f := newPriceFixture(t)
	f.seedPending("a@example.org")
	decided := f.seedPending("b@example.org")
	_, err := f.svc.Validate(context.Background(), decided.ID, uuid.New(), dto.ValidatePriceRequest{})
	require.NoError(t, err)

	validated, total, err := f.svc.ListValidated(context.Background(), dto.PriceFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, validated, 1)
	assert.Equal(t, decided.ID.String(), validated[0].ID)

	pending, total, err := f.svc.ListPending(context.Background(), dto.PriceFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, pending, 1)
	assert.Equal(t, model.StatusPending, pending[0].Status)
}
