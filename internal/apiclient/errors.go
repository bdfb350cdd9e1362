package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed API call by its outcome rather than by error text.
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindServerError
	KindUnexpected
)

var kindNames = map[Kind]string{
	KindUnknown:      "unknown",
	KindNetwork:      "network",
	KindBadRequest:   "bad_request",
	KindUnauthorized: "unauthorized",
	KindForbidden:    "forbidden",
	KindNotFound:     "not_found",
	KindConflict:     "conflict",
	KindServerError:  "server_error",
	KindUnexpected:   "unexpected",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// KindForStatus maps a non-200 response status to its Kind.
func KindForStatus(status int) Kind {
	switch {
	case status == http.StatusBadRequest:
		return KindBadRequest
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status >= http.StatusInternalServerError:
		return KindServerError
	default:
		return KindUnexpected
	}
}

// Error describes a failed API call.
type Error struct {
	Op     string
	Kind   Kind
	Status int // zero when no response was received
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("apiclient %s: %s", e.Op, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind carried by err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
