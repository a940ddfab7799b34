package product

import (
	"errors"
	"net/http"
	"strconv"

	"dentalclinic/internal/pkg/response"
	"dentalclinic/internal/repository"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/products", h.ListActive)
	rg.GET("/products/:id", h.GetActive)
}

func (h *Handler) RegisterAdminRoutes(protected *gin.RouterGroup) {
	g := protected.Group("/products")
	{
		g.POST("", h.Create)
		g.PUT("/:id", h.Update)
		g.PATCH("/:id", h.Patch)
		g.DELETE("/:id", h.Delete)
	}
}

// RegisterCatalogRoutes exposes the full catalogue, inactive items included.
func (h *Handler) RegisterCatalogRoutes(admin *gin.RouterGroup) {
	admin.GET("/products", h.ListAll)
	admin.GET("/products/:id", h.GetAny)
}

func (h *Handler) ListActive(c *gin.Context) {
	h.list(c, true)
}

func (h *Handler) ListAll(c *gin.Context) {
	h.list(c, false)
}

func (h *Handler) list(c *gin.Context, activeOnly bool) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	out, err := h.service.List(c.Request.Context(), repository.ProductFilter{
		Category:   c.Query("category"),
		Search:     c.Query("search"),
		ActiveOnly: activeOnly,
		Page:       repository.NewPage(page, limit),
	})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to list products")
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) GetActive(c *gin.Context) {
	h.get(c, false)
}

func (h *Handler) GetAny(c *gin.Context) {
	h.get(c, true)
}

func (h *Handler) get(c *gin.Context, includeInactive bool) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	p, err := h.service.Get(c.Request.Context(), id, includeInactive)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) Create(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	p, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	p, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) Patch(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req PatchProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	p, err := h.service.Patch(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "deleted"})
}

func writeError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid product", verr.Fields)
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Product not found")
	case errors.Is(err, ErrDuplicate):
		response.Error(c, http.StatusConflict, "DUPLICATE_SKU", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Product operation failed")
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID")
		return 0, false
	}
	return uint(id), true
}
