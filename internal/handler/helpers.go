package handler

import (
	"errors"
	"net/http"
	"reflect"

	"localprice/internal/apiresp"
	"localprice/internal/middleware"
	"localprice/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apiresp.Error("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, apiresp.Envelope{
			Success: false,
			Message: "validation error",
			Data:    fields,
		})
		return false
	}
	return true
}

// bindQuery binds and validates query parameters the same way.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apiresp.Error("invalid query parameters: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, apiresp.Envelope{
			Success: false,
			Message: "validation error",
			Data:    fields,
		})
		return false
	}
	return true
}

// pathID parses the :id path parameter. Writes the 400 itself on failure.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apiresp.Error("invalid id"))
		return uuid.Nil, false
	}
	return id, true
}

// currentUserID extracts the authenticated caller's id from the JWT claims.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, apiresp.Error("authentication required"))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apiresp.Error("malformed token"))
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps service sentinel errors onto HTTP status codes.
// Unknown errors become an opaque 500: internals never leak to clients.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, apiresp.Error("resource not found"))
	case errors.Is(err, service.ErrAlreadyProcessed):
		c.JSON(http.StatusConflict, apiresp.Error("already processed"))
	case errors.Is(err, service.ErrDuplicate):
		c.JSON(http.StatusConflict, apiresp.Error("duplicate resource"))
	case errors.Is(err, service.ErrDuplicatePending):
		c.JSON(http.StatusConflict, apiresp.Error("a pending request already exists"))
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, apiresp.Error("invalid credentials"))
	case errors.Is(err, service.ErrReasonRequired):
		c.JSON(http.StatusBadRequest, apiresp.Error("a rejection reason is required"))
	case errors.Is(err, service.ErrInvalidReference):
		c.JSON(http.StatusBadRequest, apiresp.Error(err.Error()))
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, apiresp.Error(err.Error()))
	default:
		log.Error().
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Err(err).
			Msg("unclassified handler error")
		c.JSON(http.StatusInternalServerError, apiresp.Error("internal server error"))
	}
}
