package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"blogfront/models"
)

type ErrorKind int

const (
	// KindTransport: no response was received.
	KindTransport ErrorKind = iota
	// KindStatus: the server answered with a 4xx or 5xx status.
	KindStatus
	// KindRejected: the server answered 2xx with success:false.
	KindRejected
	// KindDecode: the body was not a response envelope.
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindRejected:
		return "rejected"
	case KindDecode:
		return "decode"
	}
	return "unknown"
}

type Error struct {
	Kind    ErrorKind
	Method  string
	Path    string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %s", e.Method, e.Path, e.Kind)
	if e.Status != 0 {
		fmt.Fprintf(&b, " (%d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message returns the message the server attached to err, if any.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// IsRejected reports whether the server answered but refused the operation
// with success:false.
func IsRejected(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindRejected
}

func statusError(method, path string, status int, body []byte) *Error {
	apiErr := &Error{Kind: KindStatus, Method: method, Path: path, Status: status}

	var env models.Envelope
	if err := json.Unmarshal(body, &env); err == nil {
		apiErr.Message = env.Message
	} else if text := strings.TrimSpace(string(body)); len(text) > 0 && len(text) <= 200 {
		apiErr.Message = text
	}
	return apiErr
}
