package notification

import (
	"net/http"
	"slices"

	"dentalclinic/internal/domain"
	"dentalclinic/internal/pkg/jwt"
	"dentalclinic/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WSHandler struct {
	hub      *Hub
	jwt      *jwt.Service
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewWSHandler accepts any origin when allowedOrigins is empty.
func NewWSHandler(hub *Hub, jwtService *jwt.Service, allowedOrigins []string, logger *zap.Logger) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSHandler{
		hub: hub,
		jwt: jwtService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowedOrigins) == 0 || origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
		logger: logger,
	}
}

func (h *WSHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/notifications/ws", h.Handle)
}

// Handle serves GET /api/notifications/ws?token=JWT. Browsers cannot set
// headers on a websocket handshake, so the token travels in the query.
func (h *WSHandler) Handle(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "TOKEN_REQUIRED", "Token is required")
		return
	}

	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}
	if claims.Role != string(domain.RoleAdmin) {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	h.hub.ServeWS(conn, claims.UserID)
}
