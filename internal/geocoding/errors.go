package geocoding

import (
	"errors"
	"fmt"
)

// Kind classifies a geocoding failure.
type Kind int

const (
	// KindUnknown is reported for errors that did not originate in this package.
	KindUnknown Kind = iota
	// KindMissingField means an expected key is absent from a service response.
	KindMissingField
	// KindEmptyInput means a builder received an empty or absent value.
	KindEmptyInput
	// KindNoMatch means the service found no candidate for the input.
	KindNoMatch
	// KindServiceStatus means the service answered with a non-success status.
	KindServiceStatus
	// KindTransport means the request could not be sent or the response read.
	KindTransport
	// KindDecode means the service response could not be decoded.
	KindDecode
	// KindInvalidInput means the caller supplied unusable arguments.
	KindInvalidInput
	// KindInvalidValue means a response value has an unusable format.
	KindInvalidValue
)

var kindNames = map[Kind]string{
	KindUnknown:       "unknown",
	KindMissingField:  "missing_field",
	KindEmptyInput:    "empty_input",
	KindNoMatch:       "no_match",
	KindServiceStatus: "service_status",
	KindTransport:     "transport",
	KindDecode:        "decode",
	KindInvalidInput:  "invalid_input",
	KindInvalidValue:  "invalid_value",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the single failure type returned by the geocoding clients and builders.
type Error struct {
	Kind    Kind   // Kind classifies the failure.
	Message string // Message is the human readable description.
	Err     error  // Err is the underlying cause, if any.
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}

	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so the sentinels
// below match any error of their kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t.Kind == e.Kind
}

// Sentinel errors, matched by kind with errors.Is.
var (
	ErrNoMatch         = &Error{Kind: KindNoMatch, Message: "no address match found"}
	ErrEmptyInput      = &Error{Kind: KindEmptyInput, Message: "data parameter is empty"}
	ErrAddressNotFound = &Error{
		Kind:    KindServiceStatus,
		Message: "Failed to find an address for the given coordinates",
	}
)

func newError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Kind
	}

	return KindUnknown
}
