package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// envelope is the {success, message, data} wrapper used by most endpoints.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// decodePayload unwraps body into out. Enveloped bodies yield their data
// member; bodies without an envelope are decoded whole.
func decodePayload(method, path string, body []byte, out any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}

	if trimmed[0] == '{' {
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err == nil {
			if env.Success != nil && !*env.Success {
				return &EnvelopeError{Method: method, Path: path, Message: env.Message}
			}
			if hasData(env.Data) {
				return unmarshalInto(env.Data, out)
			}
			if env.Success != nil {
				return nil
			}
		}
	}
	return unmarshalInto(trimmed, out)
}

func hasData(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

func unmarshalInto(raw []byte, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage pulls a human readable message from an error response body.
func errorMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}
	if trimmed[0] == '{' {
		var payload struct {
			Message string `json:"message"`
			Error   string `json:"error"`
			Title   string `json:"title"`
			Detail  string `json:"detail"`
		}
		if err := json.Unmarshal(trimmed, &payload); err == nil {
			for _, candidate := range []string{payload.Message, payload.Detail, payload.Error, payload.Title} {
				if msg := strings.TrimSpace(candidate); msg != "" {
					return msg
				}
			}
		}
		return ""
	}
	if trimmed[0] == '"' {
		var msg string
		if err := json.Unmarshal(trimmed, &msg); err == nil {
			return strings.TrimSpace(msg)
		}
	}
	if trimmed[0] == '<' {
		return ""
	}
	text := string(trimmed)
	if len(text) > 300 {
		text = text[:300]
	}
	return text
}
