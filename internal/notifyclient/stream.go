package notifyclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	eventCreated    = "notification.created"
	streamPongWait  = 75 * time.Second
	streamWriteWait = 10 * time.Second
)

// Subscribe streams created notifications to onEvent until ctx is done or
// the connection drops. It returns ctx.Err() on cancellation.
func (c *Client) Subscribe(ctx context.Context, onEvent func(Notification)) error {
	return c.subscribe(ctx, onEvent, nil)
}

// SubscribeWithRetry keeps a subscription open, reconnecting with
// exponential backoff. Auth failures are not retried.
func (c *Client) SubscribeWithRetry(ctx context.Context, onEvent func(Notification)) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 30 * time.Second

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := c.subscribe(ctx, onEvent, b.Reset)
		if ctx.Err() != nil {
			return struct{}{}, backoff.Permanent(ctx.Err())
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden) {
			return struct{}{}, backoff.Permanent(err)
		}
		if err == nil {
			err = errors.New("stream closed")
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			c.logger.Warn("notification stream lost, reconnecting",
				zap.Error(err),
				zap.Duration("retry_in", next),
			)
		}),
	)
	return err
}

func (c *Client) subscribe(ctx context.Context, onEvent func(Notification), onOpen func()) error {
	target, err := c.streamURL()
	if err != nil {
		return err
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: c.writeTimeout,
	}
	conn, resp, err := dialer.DialContext(ctx, target, nil)
	if err != nil {
		if resp != nil && resp.StatusCode != http.StatusSwitchingProtocols {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			return newAPIError(resp.StatusCode, body)
		}
		return err
	}
	defer conn.Close()

	if onOpen != nil {
		onOpen()
	}
	c.logger.Info("notification stream connected")

	stop := context.AfterFunc(ctx, func() {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(streamWriteWait))
		_ = conn.Close()
	})
	defer stop()

	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPingHandler(func(appData string) error {
		_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(streamWriteWait))
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		return err
	})

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		var ev struct {
			Event        string       `json:"event"`
			Notification Notification `json:"notification"`
		}
		if err := json.Unmarshal(msg, &ev); err != nil {
			c.logger.Warn("malformed stream event", zap.Error(err))
			continue
		}
		if ev.Event != eventCreated || ev.Notification.ID == "" {
			continue
		}
		ev.Notification.normalize()
		onEvent(ev.Notification)
	}
}

func (c *Client) streamURL() (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/notifications/ws"

	q := url.Values{}
	if c.token != "" {
		q.Set("token", c.token)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
