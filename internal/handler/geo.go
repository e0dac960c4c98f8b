package handler

import (
	"net/http"

	"localprice/internal/apiresp"
	"localprice/internal/dto"
	"localprice/internal/service"

	"github.com/gin-gonic/gin"
)

type GeoHandler struct{ svc service.GeoService }

func NewGeoHandler(svc service.GeoService) *GeoHandler {
	return &GeoHandler{svc: svc}
}

func (h *GeoHandler) CreateRegion(c *gin.Context) {
	var req dto.CreateRegionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateRegion(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, apiresp.OK(resp))
}

func (h *GeoHandler) ListRegions(c *gin.Context) {
	resp, err := h.svc.ListRegions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apiresp.OK(resp))
}

func (h *GeoHandler) CreateLocality(c *gin.Context) {
	var req dto.CreateLocalityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateLocality(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, apiresp.OK(resp))
}

func (h *GeoHandler) GetLocality(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetLocality(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apiresp.OK(resp))
}

func (h *GeoHandler) ListLocalities(c *gin.Context) {
	var p dto.Pagination
	if !bindQuery(c, &p) {
		return
	}
	p.Clamp()
	items, total, err := h.svc.ListLocalities(c.Request.Context(), c.Query("region_id"), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apiresp.OK(apiresp.NewPage(items, total, p.Limit, p.Offset)))
}

func (h *GeoHandler) UpdateLocality(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateLocalityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateLocality(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apiresp.OK(resp))
}
