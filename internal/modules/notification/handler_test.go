package notification

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dentalclinic/internal/database"
	"dentalclinic/internal/domain"
	"dentalclinic/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func setupTestRouter(t *testing.T) (*gin.Engine, *repository.NotificationRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	repo := repository.NewNotificationRepository(db)
	h := NewHandler(NewService(repo, nil, nil))

	r := gin.New()
	api := r.Group("/api")
	h.RegisterRoutes(api)
	h.RegisterAdminRoutes(api.Group("/admin"))
	return r, repo
}

func doJSON(r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var env envelope
	_ = json.Unmarshal(rr.Body.Bytes(), &env)
	return rr, env
}

func createVia(t *testing.T, r http.Handler, title string) domain.Notification {
	t.Helper()
	rr, env := doJSON(r, http.MethodPost, "/api/notifications", map[string]any{
		"type": "ORDER", "title": title, "message": "m", "data": map[string]string{"orderId": "12"},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var n domain.Notification
	require.NoError(t, json.Unmarshal(env.Data, &n))
	return n
}

func TestHandler_CreateAndList(t *testing.T) {
	r, _ := setupTestRouter(t)

	created := createVia(t, r, "first")
	assert.Len(t, created.ID, 26)
	assert.False(t, created.IsRead)
	assert.Equal(t, "12", created.Data["orderId"])

	rr, env := doJSON(r, http.MethodGet, "/api/notifications?unreadOnly=true&limit=20", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, env.Success)

	var list []domain.Notification
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
}

func TestHandler_CreateRejectsUnknownType(t *testing.T) {
	r, _ := setupTestRouter(t)

	rr, env := doJSON(r, http.MethodPost, "/api/notifications", map[string]any{
		"type": "PROMO", "title": "t", "message": "m",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestHandler_UpdateOnlyMarksRead(t *testing.T) {
	r, _ := setupTestRouter(t)
	a := createVia(t, r, "a")
	b := createVia(t, r, "b")

	rr, env := doJSON(r, http.MethodPatch, "/api/notifications/"+a.ID, map[string]bool{"isRead": true})
	require.Equal(t, http.StatusOK, rr.Code)
	var updated domain.Notification
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.True(t, updated.IsRead)

	rr, env = doJSON(r, http.MethodPatch, "/api/notifications/"+a.ID, map[string]bool{"isRead": false})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "INVALID_TRANSITION", env.Error.Code)

	rr, _ = doJSON(r, http.MethodPatch, "/api/notifications/nope", map[string]bool{"isRead": true})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	_, env = doJSON(r, http.MethodGet, "/api/notifications?unreadOnly=true", nil)
	var unread []domain.Notification
	require.NoError(t, json.Unmarshal(env.Data, &unread))
	require.Len(t, unread, 1)
	assert.Equal(t, b.ID, unread[0].ID)
}

func TestHandler_MarkAllAndCount(t *testing.T) {
	r, _ := setupTestRouter(t)
	createVia(t, r, "a")
	createVia(t, r, "b")

	_, env := doJSON(r, http.MethodGet, "/api/notifications/unread-count", nil)
	assert.JSONEq(t, `{"unreadCount":2}`, string(env.Data))

	rr, env := doJSON(r, http.MethodPatch, "/api/notifications/mark-all-read", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"updated":2}`, string(env.Data))

	_, env = doJSON(r, http.MethodPatch, "/api/notifications/mark-all-read", nil)
	assert.JSONEq(t, `{"updated":0}`, string(env.Data))
}

func TestHandler_Delete(t *testing.T) {
	r, _ := setupTestRouter(t)
	a := createVia(t, r, "a")

	rr, _ := doJSON(r, http.MethodDelete, "/api/notifications/"+a.ID, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr, env := doJSON(r, http.MethodDelete, "/api/notifications/"+a.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestHandler_SendTest(t *testing.T) {
	r, _ := setupTestRouter(t)

	rr, env := doJSON(r, http.MethodPost, "/api/admin/notifications/test", map[string]string{"type": "BOOKING"})
	require.Equal(t, http.StatusCreated, rr.Code)

	var n domain.Notification
	require.NoError(t, json.Unmarshal(env.Data, &n))
	assert.Equal(t, domain.NotificationBooking, n.Type)
	assert.Equal(t, "test", n.Data["bookingId"])
}

func TestHandler_StoreFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:", zap.NewNop())
	require.NoError(t, err)
	// no migration: the table is missing

	h := NewHandler(NewService(repository.NewNotificationRepository(db), nil, nil))
	r := gin.New()
	h.RegisterRoutes(r.Group("/api"))

	rr, env := doJSON(r, http.MethodGet, "/api/notifications", nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "FETCH_FAILED", env.Error.Code)

	rr, env = doJSON(r, http.MethodPatch, "/api/notifications/mark-all-read", nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "UPDATE_FAILED", env.Error.Code)
}
