package domain

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	Timeout ErrorKind = iota + 1
	ClientError
	ServerError
	NetworkError
	ResourceNotFound
	ServiceUnavailable
	ValidationError
)

func (k ErrorKind) String() string {
	switch k {
	case Timeout:
		return "timeout"
	case ClientError:
		return "client_error"
	case ServerError:
		return "server_error"
	case NetworkError:
		return "network_error"
	case ResourceNotFound:
		return "resource_not_found"
	case ServiceUnavailable:
		return "service_unavailable"
	case ValidationError:
		return "validation_error"
	default:
		return "unknown"
	}
}

// FetchError is the failure side of a fetch. Attempt is 1-based for network
// failures and 0 for failures detected before any request was made.
type FetchError struct {
	Kind    ErrorKind
	Message string
	Attempt int
	Status  int
	Err     error
}

func (e *FetchError) Error() string {
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func NewValidationError(msg string) *FetchError {
	return &FetchError{Kind: ValidationError, Message: msg}
}

func NewFetchError(kind ErrorKind, attempt int, format string, args ...any) *FetchError {
	return &FetchError{Kind: kind, Attempt: attempt, Message: fmt.Sprintf(format, args...)}
}

// KindOf reports the ErrorKind carried by err, if any.
func KindOf(err error) (ErrorKind, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}
