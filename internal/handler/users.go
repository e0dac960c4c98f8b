package handler

import (
	"net/http"

	"localprice/internal/apiresp"
	"localprice/internal/dto"
	"localprice/internal/service"

	"github.com/gin-gonic/gin"
)

type UsersHandler struct{ svc service.UserService }

func NewUsersHandler(svc service.UserService) *UsersHandler {
	return &UsersHandler{svc: svc}
}

func (h *UsersHandler) List(c *gin.Context) {
	var p dto.Pagination
	if !bindQuery(c, &p) {
		return
	}
	p.Clamp()
	includeInactive := c.Query("include_inactive") == "true"
	items, total, err := h.svc.List(c.Request.Context(), includeInactive, p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apiresp.OK(apiresp.NewPage(items, total, p.Limit, p.Offset)))
}

func (h *UsersHandler) Get(c *gin.Context) {
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

func (h *UsersHandler) Deactivate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UsersHandler) Reactivate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Reactivate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GrantRole adds one role to the target user's pivot set, recording who
// performed the grant.
func (h *UsersHandler) GrantRole(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	grantedBy, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.GrantRoleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.GrantRole(c.Request.Context(), id, req.Role, grantedBy)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apiresp.OK(resp))
}

func (h *UsersHandler) RevokeRole(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.GrantRoleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RevokeRole(c.Request.Context(), id, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apiresp.OK(resp))
}

func (h *UsersHandler) RoleHeadcounts(c *gin.Context) {
	resp, err := h.svc.RoleHeadcounts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apiresp.OK(resp))
}
