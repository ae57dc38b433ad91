package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/identity-service/internal/interface/http"
)

// VerificationModule exposes the public password-recovery endpoints.
// POST /api/auth/verification requests a code, POST /api/auth/reset redeems it.
type VerificationModule struct {
	Handler *handlers.VerificationHandler
}

func NewVerificationModule(h *handlers.VerificationHandler) *VerificationModule {
	return &VerificationModule{Handler: h}
}

func (m *VerificationModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/verification", m.Handler.RequestCode)
	rg.POST("/auth/reset", m.Handler.ResetPassword)
}
