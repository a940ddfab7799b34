package booking

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

// RegisterPublicRoutes mounts the booking form; mw typically holds the rate limiter.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	rg.POST("/bookings", append(mw, h.CreateBooking)...)
}

func (h *Handler) RegisterAdminRoutes(protected *gin.RouterGroup) {
	g := protected.Group("/bookings")
	{
		g.GET("", h.ListBookings)
		g.GET("/:id", h.GetBooking)
		g.PUT("/:id", h.UpdateBooking)
		g.PATCH("/:id", h.UpdateStatus)
		g.DELETE("/:id", h.DeleteBooking)
	}
}

func (h *Handler) RegisterAnalyticsRoutes(admin *gin.RouterGroup) {
	admin.GET("/analytics/bookings", h.GetAnalytics)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err, "Failed to create booking")
		return
	}
	response.Success(c, http.StatusCreated, b)
}

func (h *Handler) ListBookings(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	out, err := h.service.List(c.Request.Context(), c.Query("status"), c.Query("search"), page, limit)
	if err != nil {
		h.writeError(c, err, "Failed to list bookings")
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	b, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Failed to get booking")
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) UpdateBooking(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err, "Failed to update booking")
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "status is required")
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.writeError(c, err, "Failed to update booking status")
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) DeleteBooking(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "Failed to delete booking")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) GetAnalytics(c *gin.Context) {
	out, err := h.service.Analytics(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		h.writeError(c, err, "Failed to compute analytics")
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking", verr.Fields)
	case errors.Is(err, ErrInvalidStatus):
		response.Error(c, http.StatusBadRequest, "INVALID_STATUS", err.Error())
	case errors.Is(err, ErrInvalidRange):
		response.Error(c, http.StatusBadRequest, "INVALID_RANGE", err.Error())
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_STATUS_TRANSITION", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return 0, false
	}
	return uint(id), true
}
