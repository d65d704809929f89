package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/ghozali/disaster-incident-api/internal/interface/http"
	"github.com/ghozali/disaster-incident-api/internal/interface/middleware"
	"github.com/ghozali/disaster-incident-api/pkg/helpers"
)

// IncidentModule wires one incident kind under /api/<prefix>.
// Reads are public; writes require a valid bearer token.

type IncidentModule struct {
	Handler *handlers.IncidentHandler
	JWT     *helpers.JWTManager
	Prefix  string // "fire" or "drought"
}

func NewIncidentModule(h *handlers.IncidentHandler, jwt *helpers.JWTManager, prefix string) *IncidentModule {
	return &IncidentModule{Handler: h, JWT: jwt, Prefix: prefix}
}

func (m *IncidentModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/" + m.Prefix)

	g.GET("", m.Handler.List)
	g.GET("/search", m.Handler.Search)
	g.GET("/:id", m.Handler.Get)

	auth := g.Group("")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.POST("", m.Handler.Create)
		auth.PUT("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
	}
}
