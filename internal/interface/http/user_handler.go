package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/identity-service/internal/application"
	"github.com/oksasatya/identity-service/internal/domain/entity"
	"github.com/oksasatya/identity-service/pkg/response"
	"github.com/oksasatya/identity-service/pkg/validation"
)

const dateLayout = "2006-01-02"

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type userRequest struct {
	Username                     string `json:"username" binding:"required"`
	Email                        string `json:"email" binding:"required,email"`
	Password                     string `json:"password,omitempty"`
	Firstname                    string `json:"firstname" binding:"required"`
	Lastname                     string `json:"lastname" binding:"required"`
	PlaceOfBirth                 string `json:"place_of_birth" binding:"required"`
	DateOfBirth                  string `json:"date_of_birth" binding:"required,datetime=2006-01-02"`
	Nationality                  string `json:"nationality" binding:"required"`
	Gender                       string `json:"gender" binding:"required,oneof=M F"`
	PersonalIdentificationNumber string `json:"personal_identification_number" binding:"required"`
}

type updatePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,pwd"`
}

func actor(c *gin.Context) string {
	return c.GetString("username")
}

// Create POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if req.Password == "" || len(req.Password) < 8 {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"password": "must be at least 8 characters long"})
		return
	}
	dob, _ := time.Parse(dateLayout, req.DateOfBirth)
	u, err := h.Svc.Create(c.Request.Context(), actor(c), application.CreateUserInput{
		Username:                     req.Username,
		Email:                        req.Email,
		Password:                     req.Password,
		Firstname:                    req.Firstname,
		Lastname:                     req.Lastname,
		PlaceOfBirth:                 req.PlaceOfBirth,
		DateOfBirth:                  dob,
		Nationality:                  req.Nationality,
		Gender:                       entity.Gender(req.Gender),
		PersonalIdentificationNumber: req.PersonalIdentificationNumber,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toUserView(u), "user created", nil)
}

// Update PUT /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	dob, _ := time.Parse(dateLayout, req.DateOfBirth)
	u, err := h.Svc.Update(c.Request.Context(), actor(c), c.Param("id"), application.UpdateUserInput{
		Username:                     req.Username,
		Email:                        req.Email,
		Firstname:                    req.Firstname,
		Lastname:                     req.Lastname,
		PlaceOfBirth:                 req.PlaceOfBirth,
		DateOfBirth:                  dob,
		Nationality:                  req.Nationality,
		Gender:                       entity.Gender(req.Gender),
		PersonalIdentificationNumber: req.PersonalIdentificationNumber,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserView(u), "user updated", nil)
}

// Delete DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "user deleted", nil)
}

// GetByID GET /api/users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	u, err := h.Svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserView(u), "user", nil)
}

// List GET /api/users?page=&size=
func (h *UserHandler) List(c *gin.Context) {
	page, size := pageAndSize(c)
	users, err := h.Svc.List(c.Request.Context(), page, size)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserViews(users), "users", gin.H{"page": page, "size": size})
}

// Search GET /api/users/search?q=&page=&size=
func (h *UserHandler) Search(c *gin.Context) {
	page, size := pageAndSize(c)
	users, err := h.Svc.Search(c.Request.Context(), c.Query("q"), page, size)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserViews(users), "users", gin.H{"page": page, "size": size})
}

// AddRole PUT /api/users/:id/roles/:roleId
func (h *UserHandler) AddRole(c *gin.Context) {
	u, err := h.Svc.AddRoleToUser(c.Request.Context(), c.Param("id"), c.Param("roleId"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserView(u), "role added", nil)
}

// RemoveRole DELETE /api/users/:id/roles/:roleId
func (h *UserHandler) RemoveRole(c *gin.Context) {
	u, err := h.Svc.RemoveRoleFromUser(c.Request.Context(), c.Param("id"), c.Param("roleId"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserView(u), "role removed", nil)
}

// UpdatePassword PUT /api/users/password (authenticated user changes own password)
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	username := c.GetString("username")
	if username == "" {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	if err := h.Svc.UpdatePassword(c.Request.Context(), username, req.OldPassword, req.NewPassword); err != nil {
		writeError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"updated": true}, "password updated", nil)
}

func pageAndSize(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		page = 0
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "20"))
	if err != nil || size <= 0 {
		size = 20
	}
	return page, size
}
