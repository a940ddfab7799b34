package order

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

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	rg.POST("/orders", append(mw, h.Checkout)...)
}

func (h *Handler) RegisterAdminRoutes(protected *gin.RouterGroup) {
	g := protected.Group("/orders")
	{
		g.GET("", h.ListOrders)
		g.GET("/:id", h.GetOrder)
		g.PATCH("/:id", h.UpdateStatus)
		g.PUT("/:id", h.UpdateContact)
		g.DELETE("/:id", h.DeleteOrder)
	}
}

func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	o, err := h.service.Checkout(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "Failed to place order")
		return
	}
	response.Success(c, http.StatusCreated, o)
}

func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	out, err := h.service.List(c.Request.Context(), c.Query("status"), c.Query("search"), page, limit)
	if err != nil {
		writeError(c, err, "Failed to list orders")
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	o, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "Failed to get order")
		return
	}
	response.Success(c, http.StatusOK, o)
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

	o, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		writeError(c, err, "Failed to update order status")
		return
	}
	response.Success(c, http.StatusOK, o)
}

func (h *Handler) UpdateContact(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	o, err := h.service.UpdateContact(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err, "Failed to update order")
		return
	}
	response.Success(c, http.StatusOK, o)
}

func (h *Handler) DeleteOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err, "Failed to delete order")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "deleted"})
}

func writeError(c *gin.Context, err error, fallback string) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid order", verr.Fields)
	case errors.Is(err, ErrProductUnavailable):
		response.Error(c, http.StatusBadRequest, "PRODUCT_UNAVAILABLE", err.Error())
	case errors.Is(err, ErrInvalidStatus):
		response.Error(c, http.StatusBadRequest, "INVALID_STATUS", err.Error())
	case errors.Is(err, ErrOutOfStock):
		response.Error(c, http.StatusConflict, "OUT_OF_STOCK", err.Error())
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_STATUS_TRANSITION", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Order not found")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID")
		return 0, false
	}
	return uint(id), true
}
