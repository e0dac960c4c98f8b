package service

import (
	"context"
	"testing"

	"localprice/internal/dto"
	"localprice/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type webhookFixture struct {
	svc     WebhookService
	prices  *stubPriceRepo
	catalog *stubCatalogRepo
	geo     *stubGeoRepo
	users   *stubUserRepo
}

func newWebhookFixture() *webhookFixture {
	f := &webhookFixture{
		prices:  newStubPriceRepo(),
		catalog: newStubCatalogRepo(),
		geo:     newStubGeoRepo(),
		users:   newStubUserRepo(),
	}
	f.svc = NewWebhookService(f.prices, f.catalog, f.geo, f.users)
	return f
}

func koboSubmission() dto.KoboSubmission {
	return dto.KoboSubmission{
		Product:  "Maize",
		Locality: "Dapaong",
		Unit:     "kg",
		Amount:   "275.00",
		Date:     "2026-08-22",
	}
}

func TestIngestCreatesPendingPrice(t *testing.T) {
	f := newWebhookFixture()

	resp, err := f.svc.Ingest(context.Background(), koboSubmission())
	require.NoError(t, err)

	// The webhook never bypasses moderation.
	assert.Equal(t, model.StatusPending, resp.Status)
	assert.Equal(t, "275", resp.Amount.String())
	assert.Equal(t, "2026-08-22", resp.ObservedAt)
}

func TestIngestReusesExistingReferenceRows(t *testing.T) {
	f := newWebhookFixture()
	ctx := context.Background()

	existing := &model.Product{Name: "Maize", Slug: "maize", Active: true}
	require.NoError(t, f.catalog.CreateProduct(ctx, existing))

	_, err := f.svc.Ingest(ctx, koboSubmission())
	require.NoError(t, err)

	assert.Len(t, f.catalog.products, 1)
	for id := range f.prices.prices {
		p, _ := f.prices.FindByID(ctx, id)
		assert.Equal(t, existing.ID, p.ProductID)
	}
}

func TestIngestOtherAnswerCreatesReferenceRow(t *testing.T) {
	f := newWebhookFixture()
	ctx := context.Background()

	sub := koboSubmission()
	sub.Product = "other"
	sub.ProductOther = "Fonio Blanc"

	_, err := f.svc.Ingest(ctx, sub)
	require.NoError(t, err)

	created, err := f.catalog.FindProductBySlug(ctx, "fonio-blanc")
	require.NoError(t, err)
	assert.Equal(t, "Fonio Blanc", created.Name)
}

func TestIngestOtherWithoutFreeTextFails(t *testing.T) {
	f := newWebhookFixture()

	sub := koboSubmission()
	sub.Unit = "OTHER"
	sub.UnitOther = "   "

	_, err := f.svc.Ingest(context.Background(), sub)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, f.prices.prices)
}

func TestIngestRejectsBadAmountAndDate(t *testing.T) {
	f := newWebhookFixture()

	cases := []struct {
		name   string
		mutate func(s *dto.KoboSubmission)
	}{
		{"non-numeric amount", func(s *dto.KoboSubmission) { s.Amount = "abc" }},
		{"zero amount", func(s *dto.KoboSubmission) { s.Amount = "0" }},
		{"negative amount", func(s *dto.KoboSubmission) { s.Amount = "-5" }},
		{"bad date", func(s *dto.KoboSubmission) { s.Date = "22/08/2026" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub := koboSubmission()
			tc.mutate(&sub)
			_, err := f.svc.Ingest(context.Background(), sub)
			// Classified as a validation failure so the handler answers 400,
			// not 500.
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
	assert.Empty(t, f.prices.prices)
}

func TestIngestCreatesCollectorAccountOnce(t *testing.T) {
	f := newWebhookFixture()
	ctx := context.Background()

	_, err := f.svc.Ingest(ctx, koboSubmission())
	require.NoError(t, err)
	_, err = f.svc.Ingest(ctx, koboSubmission())
	require.NoError(t, err)

	collector, err := f.users.FindByUsername(ctx, "kobo-collector")
	require.NoError(t, err)
	assert.Len(t, f.users.users, 1)
	assert.True(t, f.users.hasRole(collector.ID, model.RoleContributor))

	// Both submissions are attributed to the shared account.
	for id := range f.prices.prices {
		p, _ := f.prices.FindByID(ctx, id)
		assert.Equal(t, collector.ID, p.SubmitterID)
	}
}
