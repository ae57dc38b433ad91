package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/identity-service/internal/application"
	"github.com/oksasatya/identity-service/pkg/response"
	"github.com/oksasatya/identity-service/pkg/validation"
)

type RoleHandler struct {
	Svc    *application.RoleService
	Logger *logrus.Logger
}

func NewRoleHandler(svc *application.RoleService, logger *logrus.Logger) *RoleHandler {
	return &RoleHandler{Svc: svc, Logger: logger}
}

type roleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// Create POST /api/roles
func (h *RoleHandler) Create(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	r, err := h.Svc.Create(c.Request.Context(), actor(c), req.Name, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toRoleView(r), "role created", nil)
}

// Update PUT /api/roles/:id
func (h *RoleHandler) Update(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	r, err := h.Svc.Update(c.Request.Context(), actor(c), c.Param("id"), req.Name, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toRoleView(r), "role updated", nil)
}

// GetByID GET /api/roles/:id
func (h *RoleHandler) GetByID(c *gin.Context) {
	r, err := h.Svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toRoleView(r), "role", nil)
}

// List GET /api/roles?page=&size=&q=
func (h *RoleHandler) List(c *gin.Context) {
	page, size := pageAndSize(c)
	if q := c.Query("q"); q != "" {
		rs, err := h.Svc.Search(c.Request.Context(), q, page, size)
		if err != nil {
			writeError(c, err)
			return
		}
		response.Success(c, http.StatusOK, toRoleViews(rs), "roles", gin.H{"page": page, "size": size})
		return
	}
	rs, err := h.Svc.List(c.Request.Context(), page, size)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toRoleViews(rs), "roles", gin.H{"page": page, "size": size})
}

// Delete DELETE /api/roles/:id
func (h *RoleHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "role deleted", nil)
}
