package handler

import (
	"net/http"

	"localprice/internal/apiresp"
	"localprice/internal/dto"
	"localprice/internal/service"

	"github.com/gin-gonic/gin"
)

type ContributionsHandler struct{ svc service.ContributionService }

func NewContributionsHandler(svc service.ContributionService) *ContributionsHandler {
	return &ContributionsHandler{svc: svc}
}

// Apply opens the caller's contributor application. 409 while an earlier one
// is still pending.
func (h *ContributionsHandler) Apply(c *gin.Context) {
	applicantID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.ApplyContributionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Apply(c.Request.Context(), applicantID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, apiresp.OK(resp))
}

func (h *ContributionsHandler) ListPending(c *gin.Context) {
	var p dto.Pagination
	if !bindQuery(c, &p) {
		return
	}
	p.Clamp()
	items, total, err := h.svc.ListPending(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apiresp.OK(apiresp.NewPage(items, total, p.Limit, p.Offset)))
}

func (h *ContributionsHandler) Approve(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	reviewerID, ok := currentUserID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Approve(c.Request.Context(), id, reviewerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apiresp.OK(resp))
}

func (h *ContributionsHandler) Reject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	reviewerID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.ReviewContributionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Reject(c.Request.Context(), id, reviewerID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apiresp.OK(resp))
}

// ── Notification preferences ─────────────────────────────────────────────────

func (h *ContributionsHandler) GetPreferences(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apiresp.OK(resp))
}

func (h *ContributionsHandler) UpdatePreferences(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.PreferencesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdatePreferences(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apiresp.OK(resp))
}
