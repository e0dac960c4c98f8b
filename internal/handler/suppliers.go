package handler

import (
	"net/http"

	"localprice/internal/apiresp"
	"localprice/internal/dto"
	"localprice/internal/service"

	"github.com/gin-gonic/gin"
)

type SuppliersHandler struct{ svc service.SupplierService }

func NewSuppliersHandler(svc service.SupplierService) *SuppliersHandler {
	return &SuppliersHandler{svc: svc}
}

func (h *SuppliersHandler) Create(c *gin.Context) {
	var req dto.CreateSupplierRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, apiresp.OK(resp))
}

func (h *SuppliersHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apiresp.OK(resp))
}

func (h *SuppliersHandler) List(c *gin.Context) {
	var p dto.Pagination
	if !bindQuery(c, &p) {
		return
	}
	p.Clamp()
	items, total, err := h.svc.List(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apiresp.OK(apiresp.NewPage(items, total, p.Limit, p.Offset)))
}

func (h *SuppliersHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SuppliersHandler) AddPrice(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.CreateSupplierPriceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddPrice(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, apiresp.OK(resp))
}

func (h *SuppliersHandler) ListPrices(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var p dto.Pagination
	if !bindQuery(c, &p) {
		return
	}
	p.Clamp()
	items, total, err := h.svc.ListPrices(c.Request.Context(), id, p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apiresp.OK(apiresp.NewPage(items, total, p.Limit, p.Offset)))
}

func (h *SuppliersHandler) SetAvailability(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.SetAvailabilityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SetAvailability(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apiresp.OK(resp))
}

func (h *SuppliersHandler) ListAvailability(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListAvailability(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apiresp.OK(resp))
}
