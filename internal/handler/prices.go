package handler

import (
	"net/http"

	"localprice/internal/apiresp"
	"localprice/internal/dto"
	"localprice/internal/middleware"
	"localprice/internal/service"

	"github.com/gin-gonic/gin"
)

type PricesHandler struct{ svc service.PriceService }

func NewPricesHandler(svc service.PriceService) *PricesHandler {
	return &PricesHandler{svc: svc}
}

// Submit stores a contributor's observation in pending state.
func (h *PricesHandler) Submit(c *gin.Context) {
	submitterID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.SubmitPriceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Submit(c.Request.Context(), submitterID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	middleware.PriceSubmissionsTotal.WithLabelValues("api").Inc()
	c.JSON(http.StatusCreated, apiresp.OK(resp))
}

// ListValidated is the public browse endpoint: only validated rows, with the
// open filter set applied as conjunctive predicates.
func (h *PricesHandler) ListValidated(c *gin.Context) {
	var filter dto.PriceFilter
	if !bindQuery(c, &filter) {
		return
	}
	filter.Clamp()
	items, total, err := h.svc.ListValidated(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apiresp.OK(apiresp.NewPage(items, total, filter.Limit, filter.Offset)))
}

// ListPending is the admin moderation queue.
func (h *PricesHandler) ListPending(c *gin.Context) {
	var filter dto.PriceFilter
	if !bindQuery(c, &filter) {
		return
	}
	filter.Clamp()
	items, total, err := h.svc.ListPending(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apiresp.OK(apiresp.NewPage(items, total, filter.Limit, filter.Offset)))
}

func (h *PricesHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apiresp.OK(resp))
}

// Validate moves a pending observation to validated. 404 when the id does not
// exist, 409 when the row was already decided.
func (h *PricesHandler) Validate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	validatorID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.ValidatePriceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Validate(c.Request.Context(), id, validatorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	middleware.ModerationDecisionsTotal.WithLabelValues("validated").Inc()
	c.JSON(http.StatusOK, apiresp.OK(resp))
}

// Reject moves a pending observation to rejected; the reason is mandatory.
func (h *PricesHandler) Reject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	validatorID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.RejectPriceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Reject(c.Request.Context(), id, validatorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	middleware.ModerationDecisionsTotal.WithLabelValues("rejected").Inc()
	c.JSON(http.StatusOK, apiresp.OK(resp))
}
