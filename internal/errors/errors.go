// Package errors provides error handling for brightpath.
//
// It re-exports github.com/cockroachdb/errors and defines the error kinds
// every persistence and generation call can fail with:
//
//   - ErrValidation: the input was rejected before any request was sent
//   - ErrConnectivity: the backend could not be reached at all
//   - ErrTimeout: the request exceeded its time bound
//   - *ServerError: the backend answered with a non-success status
//   - ErrNotFound: the id does not resolve to a record
//
// Kinds are attached with Mark so the original cause and its message survive:
//
//	return errors.Mark(errors.Wrap(err, "GET /applications"), errors.ErrConnectivity)
//
// and checked with Is:
//
//	if errors.Is(err, errors.ErrTimeout) { ... }
package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithSecondaryError = crdb.WithSecondaryError
	GetAllHints        = crdb.GetAllHints
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

var (
	// ErrNotFound indicates the requested application does not exist
	ErrNotFound = New("not found")

	// ErrValidation indicates the input was rejected locally
	ErrValidation = New("validation failed")

	// ErrConnectivity indicates the backend was unreachable
	ErrConnectivity = New("cannot reach server")

	// ErrTimeout indicates the request exceeded its deadline
	ErrTimeout = New("request timed out")

	// ErrBusy indicates a mutation is already in flight
	ErrBusy = New("a request is already in progress")
)

// ServerError is a non-success HTTP answer from the backend.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP error %d", e.Status)
}

// Validationf builds an error of kind ErrValidation.
func Validationf(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrValidation)
}

// IsValidation reports whether err was rejected before being sent.
func IsValidation(err error) bool {
	return err != nil && Is(err, ErrValidation)
}

// IsConnectivity reports whether err is a transport-level failure.
func IsConnectivity(err error) bool {
	return err != nil && Is(err, ErrConnectivity)
}

// IsTimeout reports whether err is a timed out request.
func IsTimeout(err error) bool {
	return err != nil && Is(err, ErrTimeout)
}

// IsNotFound reports whether err is or wraps ErrNotFound, or is a 404 from the backend.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if Is(err, ErrNotFound) {
		return true
	}
	var se *ServerError
	return As(err, &se) && se.Status == 404
}

// ServerStatus returns the HTTP status carried by err, or 0.
func ServerStatus(err error) int {
	var se *ServerError
	if As(err, &se) {
		return se.Status
	}
	return 0
}

// Fixed user-facing texts.
const (
	MsgUnreachable = "Cannot reach server. Check your connection."
	MsgTimeout     = "The request took too long. Please try again."
)

// UserMessage turns err into the single line shown to the user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case IsTimeout(err):
		return MsgTimeout
	case IsConnectivity(err):
		return MsgUnreachable
	case IsValidation(err), IsNotFound(err), Is(err, ErrBusy):
		return err.Error()
	}
	var se *ServerError
	if As(err, &se) {
		return se.Error()
	}
	return "Unexpected error: " + err.Error()
}
