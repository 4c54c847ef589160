package apiclient

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a call did not yield a decoded JSON value.
type ErrorKind string

const (
	KindTransport      ErrorKind = "transport_error"
	KindHTTPStatus     ErrorKind = "http_status_error"
	KindDecode         ErrorKind = "decode_error"
	KindFileRead       ErrorKind = "file_read_error"
	KindEncode         ErrorKind = "encode_error"
	KindInvalidRequest ErrorKind = "invalid_request"
)

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrTransport      = errors.New(string(KindTransport))
	ErrHTTPStatus     = errors.New(string(KindHTTPStatus))
	ErrDecode         = errors.New(string(KindDecode))
	ErrFileRead       = errors.New(string(KindFileRead))
	ErrEncode         = errors.New(string(KindEncode))
	ErrInvalidRequest = errors.New(string(KindInvalidRequest))
)

var kindSentinels = map[ErrorKind]error{
	KindTransport:      ErrTransport,
	KindHTTPStatus:     ErrHTTPStatus,
	KindDecode:         ErrDecode,
	KindFileRead:       ErrFileRead,
	KindEncode:         ErrEncode,
	KindInvalidRequest: ErrInvalidRequest,
}

// Error is the failure arm of Result.
type Error struct {
	Kind    ErrorKind
	Message string
	// StatusCode is set for KindHTTPStatus only.
	StatusCode int
	// Body holds the raw response text whenever a response was received.
	Body string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrDecode) and friends match on kind.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	return kindSentinels[e.Kind] == target
}

// Result is either a decoded JSON value or an *Error; exactly one arm is set.
type Result struct {
	Value any
	Err   *Error
}

// OK reports whether the call succeeded.
func (r Result) OK() bool { return r.Err == nil }

func success(v any) Result { return Result{Value: v} }

func failure(kind ErrorKind, msg string, status int, body string, cause error) Result {
	return Result{Err: &Error{
		Kind:       kind,
		Message:    msg,
		StatusCode: status,
		Body:       body,
		Err:        cause,
	}}
}
