package notifyclient

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownNotification = errors.New("notification not in inbox")

// APIError is returned by every mutation that got a non-2xx answer.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// newAPIError extracts code and message from either the
// {"error":{"code","message"}} envelope, {"error":"..."} or {"message":"..."}.
func newAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status}

	var payload struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return e
	}
	e.Message = payload.Message

	if len(payload.Error) == 0 {
		return e
	}
	var obj struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(payload.Error, &obj) == nil {
		e.Code = obj.Code
		if obj.Message != "" {
			e.Message = obj.Message
		}
		return e
	}
	var s string
	if json.Unmarshal(payload.Error, &s) == nil && s != "" {
		e.Message = s
	}
	return e
}
