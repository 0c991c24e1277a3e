package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jaekwang-park/todo-list/internal/service"
)

// ErrUnauthorized is returned when the server rejects the bearer token.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx response from the todo API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("todo api: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("todo api: %s: %s", e.Code, e.Message)
}

// codeMap maps API error codes to the service sentinel they stand for.
var codeMap = map[string]error{
	"INVALID_INPUT":    service.ErrInvalidInput,
	"INVALID_JSON":     service.ErrInvalidInput,
	"INVALID_FILTER":   service.ErrInvalidInput,
	"NOT_FOUND":        service.ErrNotFound,
	"OPERATION_FAILED": service.ErrOperationFailed,
	"UNAUTHORIZED":     ErrUnauthorized,
}

// Is lets callers test API errors against the same sentinels the service
// returns in-process.
func (e *APIError) Is(target error) bool {
	if sentinel, ok := codeMap[e.Code]; ok {
		return sentinel == target
	}
	switch {
	case e.Status == http.StatusNotFound:
		return target == service.ErrNotFound
	case e.Status == http.StatusUnauthorized:
		return target == ErrUnauthorized
	case e.Status >= 400 && e.Status < 500:
		return target == service.ErrInvalidInput
	default:
		return target == service.ErrOperationFailed
	}
}
