package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrCircuitOpen is returned when the circuit breaker rejects a request.
var ErrCircuitOpen = errors.New("circuit breaker open")

// UnexpectedStatusError is returned for responses outside an endpoint's
// documented success codes when the client raises on unexpected statuses.
type UnexpectedStatusError struct {
	Method     string
	Path       string
	StatusCode int
	Content    []byte
}

const maxErrorSnippet = 512

func (e *UnexpectedStatusError) Error() string {
	msg := fmt.Sprintf("unexpected status code %d from %s %s", e.StatusCode, e.Method, e.Path)
	if apiErr := e.APIError(); apiErr != nil {
		return msg + ": " + apiErr.Error()
	}
	body := strings.TrimSpace(string(e.Content))
	if body == "" {
		return msg
	}
	if len(body) > maxErrorSnippet {
		body = body[:maxErrorSnippet] + "..."
	}
	return msg + ": " + body
}

// APIError decodes the server's error payload, or returns nil when the body
// is not a WATS error document.
func (e *UnexpectedStatusError) APIError() *APIError {
	var apiErr APIError
	if err := json.Unmarshal(e.Content, &apiErr); err != nil {
		return nil
	}
	if apiErr.Message == "" && apiErr.ExceptionMessage == "" {
		return nil
	}
	return &apiErr
}

// APIError is the error document returned by the WATS server.
type APIError struct {
	Message          string              `json:"Message"`
	MessageDetail    string              `json:"MessageDetail,omitempty"`
	ExceptionMessage string              `json:"ExceptionMessage,omitempty"`
	ExceptionType    string              `json:"ExceptionType,omitempty"`
	ModelState       map[string][]string `json:"ModelState,omitempty"`
}

func (e *APIError) Error() string {
	parts := make([]string, 0, 3)
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.ExceptionMessage != "" {
		parts = append(parts, e.ExceptionMessage)
	}
	if e.MessageDetail != "" {
		parts = append(parts, e.MessageDetail)
	}
	return strings.Join(parts, ": ")
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var se *UnexpectedStatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// MissingParameterError is returned before any I/O when a required path
// parameter is empty.
type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing required %s parameter", e.Name)
}

// ValidationError reports a request body that failed field validation.
type ValidationError struct {
	Errs validator.ValidationErrors
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errs))
	for _, fe := range e.Errs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return "invalid request body: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error {
	return e.Errs
}

// Require takes name/value pairs and returns a MissingParameterError for the
// first empty value.
func Require(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return &MissingParameterError{Name: pairs[i]}
		}
	}
	return nil
}
