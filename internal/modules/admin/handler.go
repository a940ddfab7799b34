package admin

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"dentalclinic/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service *Service
	exports *ExportService
}

func NewHandler(service *Service, exports *ExportService) *Handler {
	return &Handler{service: service, exports: exports}
}

func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/dashboard", h.GetDashboard)

	export := admin.Group("/export")
	{
		export.GET("/bookings.xlsx", h.xlsx(h.exports.BookingsXLSX))
		export.GET("/orders.xlsx", h.xlsx(h.exports.OrdersXLSX))
		export.GET("/products.xlsx", h.xlsx(h.exports.ProductsXLSX))
		export.GET("/bookings.ics", h.BookingsICS)
	}
}

func (h *Handler) GetDashboard(c *gin.Context) {
	d, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to load dashboard")
		return
	}
	response.Success(c, http.StatusOK, d)
}

func (h *Handler) xlsx(build func(ctx context.Context) (*bytes.Buffer, string, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		buf, filename, err := build(c.Request.Context())
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "EXPORT_FAILED", "Failed to generate export")
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	}
}

func (h *Handler) BookingsICS(c *gin.Context) {
	out, err := h.exports.BookingsICS(c.Request.Context(), c.Query("upcoming") == "true")
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "EXPORT_FAILED", "Failed to generate calendar")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="bookings.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(out))
}
