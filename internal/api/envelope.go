package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/deepself/deepself-cli/internal/clierr"
)

// Normalize unwraps a success response body.
//
// A body is an envelope only when it is a JSON object with a boolean "success"
// and the member that goes with it: "data" for true, "error" for false. Any
// other body, including a resource that happens to have a "success" field, is
// returned verbatim.
func Normalize(status int, body []byte) (json.RawMessage, error) {
	fields, ok := objectFields(body)
	if !ok {
		return body, nil
	}

	rawSuccess, ok := fields["success"]
	if !ok {
		return body, nil
	}
	var success bool
	if err := json.Unmarshal(rawSuccess, &success); err != nil {
		return body, nil
	}

	if success {
		data, ok := fields["data"]
		if !ok {
			return body, nil
		}
		return data, nil
	}

	rawError, ok := fields["error"]
	if !ok {
		return body, nil
	}
	message := stringField(rawError)
	if message == "" {
		message = "API request failed"
	}
	return nil, clierr.API(message, status, stringField(fields["code"]))
}

// statusError classifies an HTTP error response
func statusError(status int, body []byte) error {
	fields, _ := objectFields(body)
	message := stringField(fields["error"])

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		if message == "" {
			message = "Authentication failed. Please check your API key."
		}
		return clierr.Auth(message)
	case http.StatusNotFound:
		if message == "" {
			message = "Resource not found"
		}
		return clierr.NotFound(message)
	}

	if message == "" {
		message = stringField(fields["message"])
	}
	if message == "" {
		message = fmt.Sprintf("Request failed with status code %d", status)
	}
	return clierr.API(message, status, stringField(fields["code"]))
}

// objectFields splits a JSON object into its members
func objectFields(body []byte) (map[string]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, false
	}
	return fields, true
}

// stringField decodes a JSON string member, or "" when absent or not a string
func stringField(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
