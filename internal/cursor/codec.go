// Package cursor converts pagination payloads to opaque, URL-safe tokens and back.
//
// A token is the base64 URL encoding (no padding) of the payload's JSON form.
// Map keys are serialized in sorted order, so equal payloads always produce
// the same token.
package cursor

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nurlyy/customer_data/internal/domain"
)

// LastIDKey is the payload key holding the id of the last record of a page
const LastIDKey = "lastId"

// Payload is the decoded content of a cursor
type Payload map[string]interface{}

// Encode serializes payload into an opaque cursor token
func Encode(payload Payload) (string, error) {
	if payload == nil {
		return "", fmt.Errorf("%w: nil payload", domain.ErrCursorEncoding)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCursorEncoding, err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// Decode reverses Encode.
// A blank token means "no cursor" and yields a nil payload with no error.
// Numbers are kept as json.Number; field values are not interpreted.
func Decode(token string) (Payload, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}

	data, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(token, "="))
	if err != nil {
		return nil, fmt.Errorf("%w: malformed encoding: %v", domain.ErrInvalidCursor, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("%w: malformed payload: %v", domain.ErrInvalidCursor, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after payload", domain.ErrInvalidCursor)
	}

	fields, ok := value.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: payload is not an object", domain.ErrInvalidCursor)
	}
	return Payload(fields), nil
}
