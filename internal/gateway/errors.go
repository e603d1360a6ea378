package gateway

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// Kind classifies a gateway failure.
type Kind string

const (
	KindTransport Kind = "transport" // no response: network, DNS, TLS, cancelled context
	KindAuth      Kind = "auth"      // credentials rejected
	KindDecode    Kind = "decode"    // response body did not match the expected shape
	KindRemote    Kind = "remote"    // any other non-2xx answer
)

// ErrNoRows is returned by Insert and Update when the backend answered with an
// empty representation, e.g. an update whose id matched nothing.
var ErrNoRows = errors.New("no rows returned")

// Error is the structured failure returned by every gateway call. Detail holds
// the backend's own message, passed through unmodified.
type Error struct {
	Kind   Kind
	Op     string
	Status int
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s failure", e.Op, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of a gateway error, or "" for anything else.
func KindOf(err error) Kind {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Kind
	}
	return ""
}

// IsConflict reports whether the backend rejected a write because it would
// violate a unique constraint.
func IsConflict(err error) bool {
	var gerr *Error
	return errors.As(err, &gerr) && gerr.Status == http.StatusConflict
}

// Message returns the human-readable detail of a gateway error, falling back
// to err.Error().
func Message(err error) string {
	var gerr *Error
	if errors.As(err, &gerr) && gerr.Detail != "" {
		return gerr.Detail
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

var detailPaths = []string{"error_description", "msg", "message", "error"}

// errorDetail digs the message out of a backend error body. Auth and REST
// endpoints use different field names.
func errorDetail(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	for _, path := range detailPaths {
		if v := gjson.GetBytes(body, path); v.Exists() && v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

func statusError(op string, status int, body []byte) *Error {
	kind := KindRemote
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		kind = KindAuth
	}
	detail := errorDetail(body)
	if detail == "" {
		detail = http.StatusText(status)
	}
	return &Error{Kind: kind, Op: op, Status: status, Detail: detail}
}
