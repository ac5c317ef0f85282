package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"fleet-admin/internal/core/validation"
)

var (
	// ErrSessionExpired is returned when the access token could not be refreshed.
	// The session has been cleared and the user must sign in again.
	ErrSessionExpired = errors.New("session expired")
	// ErrNoRefreshToken is the refresh failure cause when nothing is stored.
	ErrNoRefreshToken = errors.New("no refresh token stored")
	// ErrUnavailable wraps network failures and timeouts talking to the backend.
	ErrUnavailable = errors.New("fleet backend unavailable")
	// ErrNoClient is returned by ContextRequester when the context carries no client.
	ErrNoClient = errors.New("no api client bound to context")
)

// User-facing notification texts.
const (
	MsgSessionExpired = "Your session has expired. Please sign in again."
	MsgForbidden      = "You do not have permission to perform this action."
	MsgNotFound       = "The requested record was not found."
	MsgBadRequest     = "The request could not be processed."
	MsgFieldErrors    = "Please correct the highlighted fields."
	MsgServerError    = "The server encountered an error. Please try again later."
	MsgUnavailable    = "Unable to reach the server. Check your connection and try again."
	MsgUnexpected     = "Something went wrong. Please try again."
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status int
	// Message is the backend's own explanation (detail, error or the first
	// non-field error), if it sent one.
	Message string
	Fields  validation.Fields
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
	}
	if len(e.Fields) > 0 {
		return fmt.Sprintf("backend returned %d: %s", e.Status, (&validation.Error{Fields: e.Fields}).Error())
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// Unwrap exposes field errors as a *validation.Error.
func (e *APIError) Unwrap() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return &validation.Error{Fields: e.Fields}
}

// Notification is the message shown to the user for this failure.
func (e *APIError) Notification() string {
	switch {
	case e.Status == http.StatusBadRequest:
		if e.Message != "" {
			return e.Message
		}
		if len(e.Fields) > 0 {
			return MsgFieldErrors
		}
		return MsgBadRequest
	case e.Status == http.StatusUnauthorized:
		if e.Message != "" {
			return e.Message
		}
		return MsgSessionExpired
	case e.Status == http.StatusForbidden:
		if e.Message != "" {
			return e.Message
		}
		return MsgForbidden
	case e.Status == http.StatusNotFound:
		return MsgNotFound
	case e.Status >= http.StatusInternalServerError:
		return MsgServerError
	case e.Message != "":
		return e.Message
	default:
		return MsgBadRequest
	}
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Notify maps any client error to the text shown to the user.
func Notify(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSessionExpired):
		return MsgSessionExpired
	case errors.As(err, &apiErr):
		return apiErr.Notification()
	case errors.Is(err, validation.ErrInvalid):
		return MsgFieldErrors
	case errors.Is(err, ErrUnavailable):
		return MsgUnavailable
	default:
		return MsgUnexpected
	}
}

// parseAPIError decodes the backend's error body. Field maps become Fields;
// "detail", "error" and "message" become Message; "non_field_errors" is kept
// as a field and its first entry also becomes Message.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		var list []string
		if json.Unmarshal(body, &list) == nil && len(list) > 0 {
			apiErr.Message = strings.Join(list, " ")
		}
		return apiErr
	}

	for _, key := range []string{"detail", "error", "message"} {
		if v, ok := raw[key]; ok {
			if msg := asMessages(v); len(msg) > 0 {
				apiErr.Message = strings.Join(msg, " ")
				delete(raw, key)
				break
			}
		}
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		msgs := asMessages(raw[k])
		if len(msgs) == 0 {
			continue
		}
		if apiErr.Fields == nil {
			apiErr.Fields = validation.Fields{}
		}
		apiErr.Fields[k] = msgs
	}

	if apiErr.Message == "" {
		if nf := apiErr.Fields[validation.NonField]; len(nf) > 0 {
			apiErr.Message = nf[0]
		}
	}

	return apiErr
}

// asMessages accepts a string, a list of strings or a nested object (whose
// values are flattened).
func asMessages(v json.RawMessage) []string {
	var s string
	if json.Unmarshal(v, &s) == nil {
		if s == "" {
			return nil
		}
		return []string{s}
	}

	var list []string
	if json.Unmarshal(v, &list) == nil {
		return list
	}

	var nested map[string]json.RawMessage
	if json.Unmarshal(v, &nested) == nil {
		keys := make([]string, 0, len(nested))
		for k := range nested {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var out []string
		for _, k := range keys {
			out = append(out, asMessages(nested[k])...)
		}
		return out
	}

	return nil
}
