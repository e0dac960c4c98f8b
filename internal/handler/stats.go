package handler

import (
	"net/http"

	"localprice/internal/apiresp"
	"localprice/internal/dto"
	"localprice/internal/service"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct{ svc service.StatsService }

func NewStatsHandler(svc service.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) Summary(c *gin.Context) {
	var filter dto.PriceFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Summary(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apiresp.OK(resp))
}

func (h *StatsHandler) Evolution(c *gin.Context) {
	var filter dto.PriceFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Evolution(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apiresp.OK(resp))
}

func (h *StatsHandler) MapPoints(c *gin.Context) {
	var filter dto.PriceFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.MapPoints(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apiresp.OK(resp))
}

func (h *StatsHandler) BestByCategory(c *gin.Context) {
	resp, err := h.svc.BestByCategory(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apiresp.OK(resp))
}

func (h *StatsHandler) Cheapest(c *gin.Context) {
	resp, err := h.svc.Cheapest(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apiresp.OK(resp))
}

func (h *StatsHandler) BasketIndex(c *gin.Context) {
	resp, err := h.svc.BasketIndex(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apiresp.OK(resp))
}
