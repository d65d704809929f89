package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ghozali/disaster-incident-api/internal/application"
	"github.com/ghozali/disaster-incident-api/internal/domain/entity"
	"github.com/ghozali/disaster-incident-api/internal/interface/middleware"
	"github.com/ghozali/disaster-incident-api/pkg/response"
	"github.com/ghozali/disaster-incident-api/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func userJSON(u *entity.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"created_at": u.CreatedAt.Format(time.RFC3339),
	}
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, token, err := h.Svc.Register(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			response.Error(c, http.StatusBadRequest, "User already exists", nil)
			return
		}
		h.Logger.WithError(err).Error("register failed")
		response.Error(c, http.StatusInternalServerError, "Server error", err.Error())
		return
	}

	response.Success(c, http.StatusOK, "User registered successfully", gin.H{
		"user":  userJSON(u),
		"token": token,
	})
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, token, err := h.Svc.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.Error(c, http.StatusBadRequest, "Invalid credentials", nil)
			return
		}
		h.Logger.WithError(err).Error("login failed")
		response.Error(c, http.StatusInternalServerError, "Server error", err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Login successful", gin.H{
		"user":  userJSON(u),
		"token": token,
	})
}

// Me GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	uid := middleware.UserID(c)
	u, err := h.Svc.CurrentUser(uid)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "User not found", nil)
			return
		}
		h.Logger.WithError(err).Error("current user lookup failed")
		response.Error(c, http.StatusInternalServerError, "Server error", nil)
		return
	}
	response.Success(c, http.StatusOK, "", userJSON(u))
}
