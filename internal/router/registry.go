// Package router collects feature modules and mounts their routes under
// a shared /api group.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Module is a feature unit that registers its own routes on the shared
// API group.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// Registry accumulates middlewares and modules, then mounts everything
// in one pass. Middlewares added via Use apply to the whole /api group,
// ahead of every module's routes.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	api := engine.Group("/api")
	return &Registry{Engine: engine, API: api}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

// RegisterAll mounts the accumulated middlewares and modules, plus a
// liveness probe at /healthz outside the API group.
func (r *Registry) RegisterAll() {
	r.Engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
}
