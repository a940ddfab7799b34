package notification

import (
	"errors"
	"net/http"
	"strconv"

	"dentalclinic/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the store endpoints on an admin-only group.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	g := admin.Group("/notifications")
	{
		g.GET("", h.List)
		g.GET("/unread-count", h.UnreadCount)
		g.POST("", h.Create)
		g.PATCH("/mark-all-read", h.MarkAllAsRead)
		g.PATCH("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.POST("/notifications/test", h.SendTest)
}

func (h *Handler) List(c *gin.Context) {
	unreadOnly := false
	if s := c.Query("unreadOnly"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_QUERY", "unreadOnly must be true or false")
			return
		}
		unreadOnly = v
	}

	limit := 0
	if s := c.Query("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			limit = v
		}
	}

	list, err := h.service.List(c.Request.Context(), unreadOnly, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to fetch notifications")
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) UnreadCount(c *gin.Context) {
	count, err := h.service.UnreadCount(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to count notifications")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"unreadCount": count})
}

func (h *Handler) Create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	n, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err, "CREATE_FAILED", "Failed to create notification")
		return
	}
	response.Success(c, http.StatusCreated, n)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsRead == nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "isRead is required")
		return
	}
	if !*req.IsRead {
		response.Error(c, http.StatusBadRequest, "INVALID_TRANSITION", ErrInvalidTransition.Error())
		return
	}

	n, err := h.service.MarkAsRead(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "UPDATE_FAILED", "Failed to update notification")
		return
	}
	response.Success(c, http.StatusOK, n)
}

func (h *Handler) MarkAllAsRead(c *gin.Context) {
	updated, err := h.service.MarkAllAsRead(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to mark notifications as read")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": updated})
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err, "DELETE_FAILED", "Failed to delete notification")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) SendTest(c *gin.Context) {
	var req TestRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
			return
		}
	}

	n, err := h.service.SendTest(c.Request.Context(), req.Type)
	if err != nil {
		h.writeError(c, err, "CREATE_FAILED", "Failed to send test notification")
		return
	}
	response.Success(c, http.StatusCreated, n)
}

func (h *Handler) writeError(c *gin.Context, err error, code, message string) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid notification", verr.Fields)
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Notification not found")
	default:
		response.Error(c, http.StatusInternalServerError, code, message)
	}
}
