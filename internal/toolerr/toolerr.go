// Package toolerr defines the error taxonomy surfaced by every tool call.
// Each error carries a machine-readable kind so callers can tell apart
// problems they fix by reconfiguration (enable the remote archive path),
// infrastructure repair (SSH/firewall) or data repair (corrupt archive).
package toolerr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	InvalidArgument     Kind = "invalid_argument"
	NotFound            Kind = "not_found"
	AmbiguousIdentifier Kind = "ambiguous_identifier"
	UnknownMetric       Kind = "unknown_metric"
	ArchiveUnavailable  Kind = "archive_unavailable"
	TransportFailure    Kind = "transport_failure"
	DataCorrupt         Kind = "data_corrupt"
)

// Error is the single structured error shape returned by tools.
// Alternatives holds actionable suggestions where the kind calls for them
// (valid metric tokens, candidate port ids, available archive files).
type Error struct {
	Kind         Kind     `json:"kind"`
	Message      string   `json:"message"`
	Alternatives []string `json:"alternatives,omitempty"`
	Err          error    `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to an underlying cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// WithAlternatives creates an error carrying a suggestion list.
func WithAlternatives(kind Kind, alternatives []string, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Alternatives: alternatives}
}

// KindOf returns the kind of err, or "" if err carries no taxonomy kind.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return ""
}

// IsKind reports whether err is a taxonomy error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// AsError returns the taxonomy error inside err, or nil.
func AsError(err error) *Error {
	var te *Error
	if errors.As(err, &te) {
		return te
	}
	return nil
}
