package videoref

import (
	"errors"
	"fmt"
)

// Reason tells why a submitted URL was rejected.
type Reason uint8

const (
	// ReasonNotExpectedHost covers unparsable URLs and any scheme, host or
	// path mismatch.
	ReasonNotExpectedHost Reason = iota + 1
	// ReasonMissingQuery means the URL has no query string, or only a bare "?".
	ReasonMissingQuery
	// ReasonMalformedQuery means the query string failed strict parsing.
	ReasonMalformedQuery
	// ReasonMissingIdentifierParameter means the query parsed but carries no
	// non-empty identifier value.
	ReasonMissingIdentifierParameter
)

// Reasons lists every rejection reason in check order.
var Reasons = []Reason{
	ReasonNotExpectedHost,
	ReasonMissingQuery,
	ReasonMalformedQuery,
	ReasonMissingIdentifierParameter,
}

// String returns the stable tag of the reason.
func (r Reason) String() string {
	switch r {
	case ReasonNotExpectedHost:
		return "not_expected_host"
	case ReasonMissingQuery:
		return "missing_query"
	case ReasonMalformedQuery:
		return "malformed_query"
	case ReasonMissingIdentifierParameter:
		return "missing_identifier_parameter"
	default:
		return fmt.Sprintf("reason(%d)", uint8(r))
	}
}

// ErrRejected matches every *RejectionError via errors.Is.
var ErrRejected = errors.New("video URL rejected")

// RejectionError is returned by Extract when a URL is not accepted.
type RejectionError struct {
	Reason Reason
	URL    string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("videoref: %s: %q", e.Reason, e.URL)
}

// Is reports whether target is ErrRejected or a RejectionError with the same reason.
func (e *RejectionError) Is(target error) bool {
	if target == ErrRejected {
		return true
	}
	other, ok := target.(*RejectionError)
	return ok && other.Reason == e.Reason
}

// ReasonOf unwraps err and returns its rejection reason, if any.
func ReasonOf(err error) (Reason, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej.Reason, true
	}
	return 0, false
}

func reject(reason Reason, raw string) error {
	return &RejectionError{Reason: reason, URL: raw}
}
