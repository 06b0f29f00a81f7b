package panelsdk

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Envelope is the normalised backend response. Data is nil when the backend
// sent no payload.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    *T     `json:"data,omitempty"`
}

// wireEnvelope is the shape as sent. Older backend builds put the payload in
// message instead of data, so both stay raw until normalised.
type wireEnvelope struct {
	Success bool            `json:"success"`
	Message json.RawMessage `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// decodeEnvelope parses body into an Envelope[T]. An empty body is a
// successful envelope with no data.
func decodeEnvelope[T any](body []byte) (*Envelope[T], error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return &Envelope[T]{Success: true}, nil
	}

	var w wireEnvelope
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	env := &Envelope[T]{Success: w.Success}
	msg, msgIsString := stringValue(w.Message)
	if msgIsString {
		env.Message = msg
	}

	payload := w.Data
	if isNull(payload) && !msgIsString && !isNull(w.Message) {
		payload = w.Message
	}
	if isNull(payload) {
		return env, nil
	}

	var data T
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("decode envelope data: %w", err)
	}
	env.Data = &data
	return env, nil
}

// serverMessage extracts a string "message" from an error body, if any.
func serverMessage(body []byte) string {
	var w wireEnvelope
	if json.Unmarshal(body, &w) != nil {
		return ""
	}
	msg, _ := stringValue(w.Message)
	return msg
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func stringValue(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return "", false
	}
	return s, true
}
