package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"localprice/internal/apiresp"
	"localprice/internal/dto"
	"localprice/internal/middleware"
	"localprice/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type WebhookHandler struct {
	svc    service.WebhookService
	secret string
}

func NewWebhookHandler(svc service.WebhookService, secret string) *WebhookHandler {
	return &WebhookHandler{svc: svc, secret: secret}
}

// Ingest receives one Kobo form submission. The shared secret travels either
// as "Authorization: Token <secret>" (Kobo's REST service format) or in the
// X-Webhook-Secret header.
func (h *WebhookHandler) Ingest(c *gin.Context) {
	if !h.authorized(c) {
		c.JSON(http.StatusUnauthorized, apiresp.Error("invalid webhook credentials"))
		return
	}

	var sub dto.KoboSubmission
	if !bindAndValidate(c, &sub) {
		return
	}
	resp, err := h.svc.Ingest(c.Request.Context(), sub)
	if err != nil {
		log.Warn().Err(err).Msg("webhook ingestion rejected")
		respondError(c, err)
		return
	}
	middleware.PriceSubmissionsTotal.WithLabelValues("kobo").Inc()
	c.JSON(http.StatusCreated, apiresp.OK(resp))
}

func (h *WebhookHandler) authorized(c *gin.Context) bool {
	if h.secret == "" {
		// No secret configured means the webhook is disabled
		return false
	}

	presented := c.GetHeader("X-Webhook-Secret")
	if presented == "" {
		auth := c.GetHeader("Authorization")
		if strings.HasPrefix(auth, "Token ") {
			presented = strings.TrimPrefix(auth, "Token ")
		}
	}
	if presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(h.secret)) == 1
}
