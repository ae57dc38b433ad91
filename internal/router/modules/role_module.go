package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/identity-service/internal/interface/http"
	"github.com/oksasatya/identity-service/internal/interface/middleware"
	"github.com/oksasatya/identity-service/pkg/helpers"
)

// RoleModule wires the ADMIN-only role management routes under /api/roles.
type RoleModule struct {
	Handler *handlers.RoleHandler
	JWT     *helpers.JWTManager
}

func NewRoleModule(h *handlers.RoleHandler, jwt *helpers.JWTManager) *RoleModule {
	return &RoleModule{Handler: h, JWT: jwt}
}

func (m *RoleModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/")
	admin.Use(middleware.Auth(m.JWT), middleware.RequireRole("ADMIN"))
	{
		admin.POST("/roles", m.Handler.Create)
		admin.GET("/roles", m.Handler.List)
		admin.GET("/roles/:id", m.Handler.GetByID)
		admin.PUT("/roles/:id", m.Handler.Update)
		admin.DELETE("/roles/:id", m.Handler.Delete)
	}
}
