package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindNetwork Kind = "network"
	KindServer  Kind = "server"
)

// Error is a failed call. Payload carries the server error body verbatim when
// the server sent one.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Payload    json.RawMessage
	cause      error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// HTTPStatus maps the failure onto a status for the view layer.
func (e *Error) HTTPStatus() int {
	if e.Kind == KindNetwork || e.StatusCode == 0 {
		return http.StatusBadGateway
	}
	return e.StatusCode
}

func newServerError(status int, raw []byte) *Error {
	apiErr := &Error{
		Kind:       KindServer,
		StatusCode: status,
		Message:    fmt.Sprintf("request failed with status %d", status),
	}
	if len(raw) == 0 || !json.Valid(raw) {
		return apiErr
	}
	apiErr.Payload = json.RawMessage(raw)

	var text string
	if err := json.Unmarshal(raw, &text); err == nil && text != "" {
		apiErr.Message = text
		return apiErr
	}

	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return apiErr
	}
	switch {
	case body.Message != "":
		apiErr.Message = body.Message
	case body.Error != "":
		apiErr.Message = body.Error
	}
	return apiErr
}
