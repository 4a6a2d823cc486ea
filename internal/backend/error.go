package backend

import (
	"encoding/json"
	"fmt"
	"sort"
)

// APIError is a non-2xx response from the management backend with the most
// specific message that could be extracted from its body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: %s (status %d)", e.Message, e.StatusCode)
}

// parseAPIError extracts a user-facing message from an error response body.
// The backend reports failures in several shapes, so the first available
// message wins in priority order: a top-level "error" string, then a
// "detail" string, then the first entry of the first validation-error array
// (field name -> list of messages). An undecodable body falls back to a
// generic status message.
func parseAPIError(status int, body []byte) *APIError {
	e := &APIError{
		StatusCode: status,
		Message:    fmt.Sprintf("request failed with status %d", status),
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return e
	}

	if msg, ok := stringField(fields, "error"); ok {
		e.Message = msg
		return e
	}
	if msg, ok := stringField(fields, "detail"); ok {
		e.Message = msg
		return e
	}

	// Validation errors: {"champ": ["message", ...], ...}. Iterate in sorted
	// key order so the extracted message is deterministic.
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		var msgs []string
		if err := json.Unmarshal(fields[k], &msgs); err != nil {
			continue
		}
		if len(msgs) > 0 {
			e.Message = fmt.Sprintf("%s: %s", k, msgs[0])
			return e
		}
	}

	return e
}

func stringField(fields map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := fields[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return "", false
	}
	return s, true
}
