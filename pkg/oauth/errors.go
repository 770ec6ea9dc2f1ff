package oauth

import (
	"errors"

	cerrdefs "github.com/containerd/errdefs"
)

// Kind classifies every failure the issuer client can report.
type Kind int

const (
	KindInvalidArgument Kind = iota + 1
	KindMalformedURL
	KindSchemeNotAllowed
	KindCredentialLoadFailure
	KindDiscoveryFailure
	KindRequestFailure
	KindResponseTooLarge
	KindUnexpectedStatus
	KindInvalidResponseBody
)

var kindNames = map[Kind]string{
	KindInvalidArgument:       "invalid argument",
	KindMalformedURL:          "malformed URL",
	KindSchemeNotAllowed:      "scheme not allowed",
	KindCredentialLoadFailure: "credential load failure",
	KindDiscoveryFailure:      "discovery failure",
	KindRequestFailure:        "request failure",
	KindResponseTooLarge:      "response too large",
	KindUnexpectedStatus:      "unexpected status",
	KindInvalidResponseBody:   "invalid response body",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// kindError is the sentinel behind each Kind. It unwraps to the errdefs
// category so callers can classify failures without knowing this package.
type kindError struct {
	kind  Kind
	class error
}

func (e *kindError) Error() string { return e.kind.String() }

func (e *kindError) Unwrap() error { return e.class }

var (
	ErrInvalidArgument       error = &kindError{KindInvalidArgument, cerrdefs.ErrInvalidArgument}
	ErrMalformedURL          error = &kindError{KindMalformedURL, cerrdefs.ErrInvalidArgument}
	ErrSchemeNotAllowed      error = &kindError{KindSchemeNotAllowed, cerrdefs.ErrInvalidArgument}
	ErrCredentialLoadFailure error = &kindError{KindCredentialLoadFailure, cerrdefs.ErrFailedPrecondition}
	ErrDiscoveryFailure      error = &kindError{KindDiscoveryFailure, cerrdefs.ErrNotFound}
	ErrRequestFailure        error = &kindError{KindRequestFailure, cerrdefs.ErrUnavailable}
	ErrResponseTooLarge      error = &kindError{KindResponseTooLarge, cerrdefs.ErrResourceExhausted}
	ErrUnexpectedStatus      error = &kindError{KindUnexpectedStatus, cerrdefs.ErrUnknown}
	ErrInvalidResponseBody   error = &kindError{KindInvalidResponseBody, cerrdefs.ErrDataLoss}
)

var sentinels = map[Kind]error{
	KindInvalidArgument:       ErrInvalidArgument,
	KindMalformedURL:          ErrMalformedURL,
	KindSchemeNotAllowed:      ErrSchemeNotAllowed,
	KindCredentialLoadFailure: ErrCredentialLoadFailure,
	KindDiscoveryFailure:      ErrDiscoveryFailure,
	KindRequestFailure:        ErrRequestFailure,
	KindResponseTooLarge:      ErrResponseTooLarge,
	KindUnexpectedStatus:      ErrUnexpectedStatus,
	KindInvalidResponseBody:   ErrInvalidResponseBody,
}

// Error is the single error type returned by the issuer client.
//
// Msg is the human-facing description; Err, when set, is the underlying cause
// and is appended to the message. errors.Is matches both the Kind sentinel and
// anything in the cause chain, so a DiscoveryFailure caused by a 404 also
// matches ErrUnexpectedStatus.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	if e.Msg == "" {
		return e.Err.Error()
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() []error {
	errs := []error{sentinels[e.Kind]}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func newError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// KindOf returns the Kind of the outermost *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
