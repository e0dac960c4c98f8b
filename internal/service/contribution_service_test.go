package service

import (
	"context"
	"testing"

	"localprice/internal/dto"
	"localprice/internal/model"
	"localprice/internal/worker"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contributionFixture struct {
	svc           ContributionService
	contributions *stubContributionRepo
	users         *stubUserRepo
	notifier      *stubNotifier
}

func newContributionFixture() *contributionFixture {
	f := &contributionFixture{
		contributions: newStubContributionRepo(),
		users:         newStubUserRepo(),
		notifier:      &stubNotifier{},
	}
	f.svc = NewContributionService(f.contributions, f.users, f.notifier)
	return f
}

func (f *contributionFixture) seedPending(email string) *model.ContributionRequest {
	mail := email
	cr := &model.ContributionRequest{
		ID:          uuid.New(),
		ApplicantID: uuid.New(),
		Status:      model.StatusPending,
		Applicant:   model.User{Username: "kossi", Email: &mail},
	}
	f.contributions.requests[cr.ID] = cr
	return cr
}

func TestApplyCreatesPendingRequest(t *testing.T) {
	f := newContributionFixture()
	motivation := "I run a market stall in Sokodé"

	resp, err := f.svc.Apply(context.Background(), uuid.New(), dto.ApplyContributionRequest{Motivation: &motivation})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, resp.Status)
	require.NotNil(t, resp.Motivation)
	assert.Equal(t, motivation, *resp.Motivation)
}

func TestApplyRejectsSecondPendingRequest(t *testing.T) {
	f := newContributionFixture()
	applicantID := uuid.New()

	_, err := f.svc.Apply(context.Background(), applicantID, dto.ApplyContributionRequest{})
	require.NoError(t, err)

	_, err = f.svc.Apply(context.Background(), applicantID, dto.ApplyContributionRequest{})
	assert.ErrorIs(t, err, ErrDuplicatePending)

	// A different applicant is unaffected.
	_, err = f.svc.Apply(context.Background(), uuid.New(), dto.ApplyContributionRequest{})
	assert.NoError(t, err)
}

func TestApproveGrantsContributorRole(t *testing.T) {
	f := newContributionFixture()
	cr := f.seedPending("kossi@example.org")

	resp, err := f.svc.Approve(context.Background(), cr.ID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, resp.Status)
	assert.True(t, f.users.hasRole(cr.ApplicantID, model.RoleContributor))

	require.Len(t, f.notifier.payloads, 1)
	payload := f.notifier.payloads[0].(worker.EmailJobPayload)
	assert.Equal(t, "kossi@example.org", payload.ToEmail)
	assert.Contains(t, payload.Subject, "approved")
}

func TestApproveIsNotRepeatable(t *testing.T) {
	f := newContributionFixture()
	cr := f.seedPending("kossi@example.org")

	_, err := f.svc.Approve(context.Background(), cr.ID, uuid.New())
	require.NoError(t, err)

	_, err = f.svc.Approve(context.Background(), cr.ID, uuid.New())
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	_, err = f.svc.Approve(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRejectContributionRequiresReason(t *testing.T) {
	f := newContributionFixture()
	cr := f.seedPending("kossi@example.org")

	_, err := f.svc.Reject(context.Background(), cr.ID, uuid.New(), dto.ReviewContributionRequest{})
	assert.ErrorIs(t, err, ErrReasonRequired)

	resp, err := f.svc.Reject(context.Background(), cr.ID, uuid.New(), dto.ReviewContributionRequest{Reason: "insufficient detail"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, resp.Status)
	require.NotNil(t, resp.Reason)
	assert.Equal(t, "insufficient detail", *resp.Reason)
	assert.False(t, f.users.hasRole(cr.ApplicantID, model.RoleContributor))
}

func TestPreferencesDefaultWhenMissing(t *testing.T) {
	f := newContributionFixture()

	prefs, err := f.svc.GetPreferences(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, prefs.EmailOnDecision)
	assert.False(t, prefs.EmailOnNewsletter)
}

func TestUpdatePreferencesIsPartial(t *testing.T) {
	f := newContributionFixture()
	userID := uuid.New()
	off := false

	prefs, err := f.svc.UpdatePreferences(context.Background(), userID, dto.PreferencesRequest{EmailOnDecision: &off})
	require.NoError(t, err)
	assert.False(t, prefs.EmailOnDecision)
	// The untouched field keeps its default.
	assert.False(t, prefs.EmailOnNewsletter)

	on := true
	prefs, err = f.svc.UpdatePreferences(context.Background(), userID, dto.PreferencesRequest{EmailOnNewsletter: &on})
	require.NoError(t, err)
	assert.False(t, prefs.EmailOnDecision)
	assert.True(t, prefs.EmailOnNewsletter)
}
