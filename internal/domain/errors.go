package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrRateLimited внешний API вернул 429
	ErrRateLimited = errors.New("rate limited")
	// ErrUnauthorized внешний API отверг ключ доступа (401)
	ErrUnauthorized = errors.New("unauthorized")
	// ErrCancelled запрос был отменён или вытеснен более новым
	ErrCancelled = errors.New("request cancelled")
)

// RequestFailedError любой другой неуспешный ответ внешнего API.
// Status == 0 означает, что запрос не уложился в таймаут.
type RequestFailedError struct {
	Status int
	Reason string
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("search failed: %d %s", e.Status, e.Reason)
}

// ErrorKind вид ошибки, видимый слою представления
type ErrorKind string

const (
	ErrorKindRateLimited   ErrorKind = "rate_limited"
	ErrorKindUnauthorized  ErrorKind = "unauthorized"
	ErrorKindRequestFailed ErrorKind = "request_failed"
	ErrorKindCancelled     ErrorKind = "cancelled"
	ErrorKindUnknown       ErrorKind = "unknown"
)

// SearchError ошибка поиска в том виде, в котором она хранится в состоянии контроллера
type SearchError struct {
	Kind    ErrorKind `json:"kind"`
	Status  int       `json:"status,omitempty"`
	Message string    `json:"message"`
}

func (e *SearchError) Error() string {
	return e.Message
}

// Retryable сообщает, имеет ли смысл повторять запрос без изменения конфигурации.
func (e *SearchError) Retryable() bool {
	return e.Kind != ErrorKindUnauthorized
}

// Classify переводит ошибку клиента API в SearchError.
func Classify(err error) *SearchError {
	if err == nil {
		return nil
	}

	var failed *RequestFailedError
	switch {
	case errors.Is(err, ErrCancelled), errors.Is(err, context.Canceled):
		return &SearchError{Kind: ErrorKindCancelled, Message: "Request cancelled"}
	case errors.Is(err, ErrRateLimited):
		return &SearchError{
			Kind:    ErrorKindRateLimited,
			Status:  429,
			Message: "Rate limit exceeded. Please try again later.",
		}
	case errors.Is(err, ErrUnauthorized):
		return &SearchError{
			Kind:    ErrorKindUnauthorized,
			Status:  401,
			Message: "Invalid API key. Please check your configuration.",
		}
	case errors.As(err, &failed):
		msg := fmt.Sprintf("Search failed: %d %s", failed.Status, failed.Reason)
		if failed.Status == 0 {
			msg = fmt.Sprintf("Search failed: %s", failed.Reason)
		}
		return &SearchError{Kind: ErrorKindRequestFailed, Status: failed.Status, Message: msg}
	default:
		return &SearchError{Kind: ErrorKindUnknown, Message: "An unexpected error occurred"}
	}
}
