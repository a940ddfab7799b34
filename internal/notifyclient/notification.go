// Package notifyclient is the admin-side consumer of the notification API:
// a fail-soft reader, fail-loud mutations, an overlap-free poller, an
// optimistic inbox and a websocket subscription used ahead of polling.
package notifyclient

import (
	"encoding/json"
	"net/url"
	"strconv"
	"time"
)

type Type string

const (
	TypeOrder   Type = "ORDER"
	TypeBooking Type = "BOOKING"
	TypeSystem  Type = "SYSTEM"
)

// Notification as seen by the client. Timestamps stay in string form; the
// store may send RFC 3339 strings or epoch milliseconds.
type Notification struct {
	ID        string         `json:"id"`
	Type      Type           `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	IsRead    bool           `json:"isRead"`
	Data      map[string]any `json:"data"`
	CreatedAt string         `json:"createdAt"`
	UpdatedAt string         `json:"updatedAt,omitempty"`
}

type CreateInput struct {
	Type    Type           `json:"type"`
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

func (n *Notification) UnmarshalJSON(b []byte) error {
	type plain Notification
	var wire struct {
		plain
		CreatedAt json.RawMessage `json:"createdAt"`
		UpdatedAt json.RawMessage `json:"updatedAt"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}

	*n = Notification(wire.plain)
	n.CreatedAt = timestampString(wire.CreatedAt)
	n.UpdatedAt = timestampString(wire.UpdatedAt)
	n.normalize()
	return nil
}

func (n *Notification) normalize() {
	if n.Data == nil {
		n.Data = map[string]any{}
	}
}

func timestampString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var ms float64
	if err := json.Unmarshal(raw, &ms); err == nil {
		return time.UnixMilli(int64(ms)).UTC().Format(time.RFC3339Nano)
	}
	return string(raw)
}

// DeepLink is the admin page the notification points at, or "" when the
// payload carries no usable id.
func (n Notification) DeepLink() string {
	switch n.Type {
	case TypeOrder:
		if id := n.dataString("orderId"); id != "" {
			return "/admin/orders?highlight=" + url.QueryEscape(id)
		}
	case TypeBooking:
		if id := n.dataString("bookingId"); id != "" {
			return "/admin/bookings?highlight=" + url.QueryEscape(id)
		}
	}
	return ""
}

func (n Notification) dataString(key string) string {
	switch v := n.Data[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	}
	return ""
}

const fallbackID = "fallback-welcome"

// fallbackNotifications is what a failed read shows instead of an error.
func fallbackNotifications(now time.Time) []Notification {
	return []Notification{{
		ID:        fallbackID,
		Type:      TypeSystem,
		Title:     "Welcome to the Admin Panel",
		Message:   "Notifications will appear here as soon as the server can be reached.",
		Data:      map[string]any{},
		CreatedAt: now.UTC().Format(time.RFC3339),
	}}
}

// IsFallback reports whether n is the offline placeholder.
func IsFallback(n Notification) bool {
	return n.ID == fallbackID
}
