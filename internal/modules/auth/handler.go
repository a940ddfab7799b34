package auth

import (
	"errors"
	"net/http"

	"dentalclinic/internal/middleware"
	"dentalclinic/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	rg.POST("/auth/login", append(mw, h.Login)...)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/auth/me", h.GetMe)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Email or password is incorrect")
			return
		}
		response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to login")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":  user,
		"token": token,
	})
}

func (h *Handler) GetMe(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	user, err := h.service.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load user")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}
