package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ghozali/disaster-incident-api/internal/container"
	handlers "github.com/ghozali/disaster-incident-api/internal/interface/http"
	"github.com/ghozali/disaster-incident-api/internal/interface/middleware"
	"github.com/ghozali/disaster-incident-api/pkg/helpers"
)

// AuthModule wires the auth endpoints.
// Public: POST /api/auth/register, POST /api/auth/login
// Protected: GET /api/auth/me

type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.GET("/auth/me", m.Handler.Me)
	}
}
