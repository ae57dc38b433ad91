package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/identity-service/internal/interface/http"
	"github.com/oksasatya/identity-service/internal/interface/middleware"
	"github.com/oksasatya/identity-service/pkg/helpers"
)

// UserModule wires the user management routes.
// Any authenticated user: PUT /api/users/password
// ADMIN only: everything else under /api/users
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))

	auth.PUT("/users/password", m.Handler.UpdatePassword)

	admin := auth.Group("/")
	admin.Use(middleware.RequireRole("ADMIN"))
	{
		admin.POST("/users", m.Handler.Create)
		admin.GET("/users", m.Handler.List)
		admin.GET("/users/search", m.Handler.Search)
		admin.GET("/users/:id", m.Handler.GetByID)
		admin.PUT("/users/:id", m.Handler.Update)
		admin.DELETE("/users/:id", m.Handler.Delete)
		admin.PUT("/users/:id/roles/:roleId", m.Handler.AddRole)
		admin.DELETE("/users/:id/roles/:roleId", m.Handler.RemoveRole)
	}
}
