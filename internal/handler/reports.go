package handler

import (
	"net/http"
	"strconv"

	"localprice/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ValidatedPricesXLSX streams the admin export workbook. ?days= bounds the
// trailing window (default 30).
func (h *ReportsHandler) ValidatedPricesXLSX(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	data, filename, err := h.svc.ValidatedPricesXLSX(c.Request.Context(), days)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}
