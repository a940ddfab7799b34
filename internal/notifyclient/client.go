package notifyclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultReadTimeout  = 5 * time.Second
	defaultWriteTimeout = 10 * time.Second
	maxBodyBytes        = 1 << 20
)

// Client talks to /api/notifications on the clinic back office.
type Client struct {
	baseURL      string
	token        string
	httpClient   *http.Client
	readTimeout  time.Duration
	writeTimeout time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithReadTimeout bounds FetchNotifications.
func WithReadTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.readTimeout = d
		}
	}
}

// WithWriteTimeout bounds every mutation.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.writeTimeout = d
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   http.DefaultClient,
		readTimeout:  defaultReadTimeout,
		writeTimeout: defaultWriteTimeout,
		logger:       zap.NewNop(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchNotifications never fails. A 500 means the store has nothing to
// offer yet and yields an empty list; any other failure yields the
// single welcome placeholder.
func (c *Client) FetchNotifications(ctx context.Context, unreadOnly bool, limit int) []Notification {
	q := url.Values{}
	q.Set("unreadOnly", strconv.FormatBool(unreadOnly))
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var list []Notification
	err := c.do(ctx, c.readTimeout, http.MethodGet, "/api/notifications?"+q.Encode(), nil, &list)
	if err != nil {
		return c.settleFetch(err)
	}

	for i := range list {
		list[i].normalize()
	}
	if list == nil {
		list = []Notification{}
	}
	return list
}

func (c *Client) settleFetch(err error) []Notification {
	if PolicyFor(OpFetch) == FailLoud {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusInternalServerError {
		c.logger.Warn("notifications store unavailable, showing empty list", zap.Error(err))
		return []Notification{}
	}
	c.logger.Warn("fetch notifications failed, showing placeholder", zap.Error(err))
	return fallbackNotifications(c.now())
}

func (c *Client) CreateNotification(ctx context.Context, in CreateInput) (*Notification, error) {
	var n Notification
	if err := c.mutate(ctx, OpCreate, http.MethodPost, "/api/notifications", in, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *Client) MarkNotificationAsRead(ctx context.Context, id string) (*Notification, error) {
	var n Notification
	body := map[string]bool{"isRead": true}
	if err := c.mutate(ctx, OpMarkRead, http.MethodPatch, "/api/notifications/"+url.PathEscape(id), body, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *Client) MarkAllNotificationsAsRead(ctx context.Context) error {
	return c.mutate(ctx, OpMarkAllRead, http.MethodPatch, "/api/notifications/mark-all-read", nil, nil)
}

func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	return c.mutate(ctx, OpDelete, http.MethodDelete, "/api/notifications/"+url.PathEscape(id), nil, nil)
}

func (c *Client) mutate(ctx context.Context, op Operation, method, path string, in, out any) error {
	err := c.do(ctx, c.writeTimeout, method, path, in, out)
	if err == nil {
		return nil
	}
	c.logger.Warn("notification request failed",
		zap.String("op", string(op)),
		zap.Stringer("policy", PolicyFor(op)),
		zap.Error(err),
	)
	if PolicyFor(op) == FailSoft {
		return nil
	}
	return err
}

// do issues one request bounded by timeout and decodes the result into out.
// Both the {"success","data"} envelope and a bare JSON body are accepted.
func (c *Client) do(ctx context.Context, timeout time.Duration, method, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	return decodeBody(resp.StatusCode, raw, out)
}

func decodeBody(status int, raw []byte, out any) error {
	var env struct {
		Success *bool           `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && env.Success != nil {
		if !*env.Success {
			return newAPIError(status, raw)
		}
		raw = env.Data
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
