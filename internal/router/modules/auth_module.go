package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/identity-service/internal/interface/http"
)

// AuthModule exposes the public login endpoint.
// POST /api/auth/login
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/login", m.Handler.Login)
}
