package notifyclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, opts...)
}

func TestNew_Defaults(t *testing.T) {
	c := New("http://clinic.local/")
	assert.Equal(t, "http://clinic.local", c.baseURL)
	assert.Equal(t, 5*time.Second, c.readTimeout)
	assert.Equal(t, 10*time.Second, c.writeTimeout)
}

func TestFetchNotifications_DecodesEnvelopeAndNormalizes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/notifications", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("unreadOnly"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		_, _ = io.WriteString(w, `{"success":true,"data":[
			{"id":"a","type":"ORDER","title":"New order","message":"m","isRead":false,
			 "data":{"orderId":"7"},"createdAt":"2026-03-10T12:00:00Z"},
			{"id":"b","type":"SYSTEM","title":"t","message":"m","isRead":false,
			 "data":null,"createdAt":1773144000000,"updatedAt":null}
		]}`)
	}, WithToken("tok"))

	list := c.FetchNotifications(context.Background(), true, 10)
	require.Len(t, list, 2)

	assert.Equal(t, "7", list[0].Data["orderId"])
	assert.Equal(t, "2026-03-10T12:00:00Z", list[0].CreatedAt)

	assert.NotNil(t, list[1].Data)
	assert.Empty(t, list[1].Data)
	assert.Equal(t, "2026-03-10T12:00:00Z", list[1].CreatedAt)
	assert.Empty(t, list[1].UpdatedAt)
}

func TestFetchNotifications_AcceptsBareArray(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":"a","type":"BOOKING","title":"t","message":"m"}]`)
	})

	list := c.FetchNotifications(context.Background(), false, 0)
	require.Len(t, list, 1)
	assert.Equal(t, TypeBooking, list[0].Type)
	assert.NotNil(t, list[0].Data)
}

func TestFetchNotifications_ServerErrorYieldsEmptyList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"success":false,"error":{"code":"FETCH_FAILED","message":"no table"}}`)
	})

	list := c.FetchNotifications(context.Background(), true, 20)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestFetchNotifications_OtherFailuresYieldPlaceholder(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"unauthorized", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}},
		{"bad gateway", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"success":true,"data":[{`)
		}},
		{"envelope failure", func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"success":false,"error":{"message":"nope"}}`)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			list := c.FetchNotifications(context.Background(), true, 20)
			require.Len(t, list, 1)
			assert.True(t, IsFallback(list[0]))
			assert.Equal(t, TypeSystem, list[0].Type)
			assert.Equal(t, "Welcome to the Admin Panel", list[0].Title)
			assert.NotNil(t, list[0].Data)
		})
	}
}

func TestFetchNotifications_UnreachableStoreYieldsPlaceholder(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	list := New(url).FetchNotifications(context.Background(), true, 20)
	require.Len(t, list, 1)
	assert.True(t, IsFallback(list[0]))
}

func TestFetchNotifications_HangingStoreTimesOut(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}, WithReadTimeout(150*time.Millisecond))

	start := time.Now()
	list := c.FetchNotifications(context.Background(), true, 20)
	elapsed := time.Since(start)

	require.Len(t, list, 1)
	assert.True(t, IsFallback(list[0]))
	assert.GreaterOrEqual(t, elapsed, 150*time.Millisecond)
	assert.Less(t, elapsed, 2*time.Second)
}

func TestMutations_CarryStoreMessage(t *testing.T) {
	ops := map[string]func(c *Client) error{
		"create": func(c *Client) error {
			_, err := c.CreateNotification(context.Background(), CreateInput{Type: TypeSystem, Title: "t", Message: "m"})
			return err
		},
		"mark read": func(c *Client) error {
			_, err := c.MarkNotificationAsRead(context.Background(), "x")
			return err
		},
		"mark all": func(c *Client) error {
			return c.MarkAllNotificationsAsRead(context.Background())
		},
		"delete": func(c *Client) error {
			return c.DeleteNotification(context.Background(), "x")
		},
	}

	bodies := []struct {
		name    string
		status  int
		body    string
		code    string
		message string
	}{
		{"envelope", http.StatusNotFound, `{"success":false,"error":{"code":"NOT_FOUND","message":"Notification not found"}}`, "NOT_FOUND", "Notification not found"},
		{"plain error string", http.StatusBadRequest, `{"error":"boom"}`, "", "boom"},
		{"message field", http.StatusConflict, `{"message":"conflict"}`, "", "conflict"},
		{"empty body", http.StatusBadGateway, ``, "", "request failed with status 502"},
	}

	for opName, op := range ops {
		for _, b := range bodies {
			t.Run(opName+"/"+b.name, func(t *testing.T) {
				c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(b.status)
					_, _ = io.WriteString(w, b.body)
				})

				err := op(c)
				require.Error(t, err)

				var apiErr *APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, b.status, apiErr.Status)
				assert.Equal(t, b.code, apiErr.Code)
				assert.Equal(t, b.message, err.Error())
			})
		}
	}
}

func TestMutations_HitTheRightEndpoints(t *testing.T) {
	type call struct{ method, path, body string }
	var (
		mu    sync.Mutex
		calls []call
	)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, call{r.Method, r.URL.Path, string(b)})
		mu.Unlock()

		switch {
		case r.Method == http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"success":true,"data":{"id":"n1","type":"SYSTEM","title":"t","message":"m","data":null}}`)
		case r.URL.Path == "/api/notifications/n1":
			if r.Method == http.MethodDelete {
				_, _ = io.WriteString(w, `{"success":true,"data":{"status":"deleted"}}`)
				return
			}
			_, _ = io.WriteString(w, `{"success":true,"data":{"id":"n1","type":"SYSTEM","title":"t","message":"m","isRead":true}}`)
		default:
			_, _ = io.WriteString(w, `{"success":true,"data":{"updated":3}}`)
		}
	})
	ctx := context.Background()

	created, err := c.CreateNotification(ctx, CreateInput{Type: TypeSystem, Title: "t", Message: "m"})
	require.NoError(t, err)
	assert.Equal(t, "n1", created.ID)
	assert.NotNil(t, created.Data)

	read, err := c.MarkNotificationAsRead(ctx, "n1")
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	require.NoError(t, c.MarkAllNotificationsAsRead(ctx))
	require.NoError(t, c.DeleteNotification(ctx, "n1"))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, calls, 4)
	assert.Equal(t, http.MethodPost, calls[0].method)
	assert.Equal(t, "/api/notifications", calls[0].path)

	var patch map[string]bool
	require.NoError(t, json.Unmarshal([]byte(calls[1].body), &patch))
	assert.Equal(t, map[string]bool{"isRead": true}, patch)
	assert.Equal(t, http.MethodPatch, calls[1].method)

	assert.Equal(t, "/api/notifications/mark-all-read", calls[2].path)
	assert.Equal(t, http.MethodDelete, calls[3].method)
}

func TestMutations_BoundedByWriteTimeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}, WithWriteTimeout(100*time.Millisecond))

	start := time.Now()
	err := c.DeleteNotification(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestPolicies(t *testing.T) {
	assert.Equal(t, FailSoft, PolicyFor(OpFetch))
	for _, op := range []Operation{OpCreate, OpMarkRead, OpMarkAllRead, OpDelete} {
		assert.Equal(t, FailLoud, PolicyFor(op), op)
	}
	assert.Equal(t, FailLoud, PolicyFor("unknown"))
	assert.Equal(t, "fail-soft", FailSoft.String())
}
