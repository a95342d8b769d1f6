package pipeline

import (
	"net/http"

	"github.com/rotisserie/eris"
)

// Caller-facing failure kinds. Check wraps exactly one of these around
// the underlying cause.
var (
	ErrInvalidInput     = eris.New("invalid input")
	ErrExtractionFailed = eris.New("extraction failed")
	ErrSynthesisFailed  = eris.New("synthesis failed")
	ErrUnexpected       = eris.New("unexpected failure")
)

// Kind classifies a pipeline error for the caller
type Kind int

const (
	KindNone Kind = iota
	KindInvalidInput
	KindExtractionFailed
	KindSynthesisFailed
	KindUnexpected
)

// KindOf maps an error returned by Check to its kind. Errors that carry
// none of the sentinels are unexpected.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case eris.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case eris.Is(err, ErrExtractionFailed):
		return KindExtractionFailed
	case eris.Is(err, ErrSynthesisFailed):
		return KindSynthesisFailed
	default:
		return KindUnexpected
	}
}

// StatusCode is the HTTP status reported for the kind
func (k Kind) StatusCode() int {
	switch k {
	case KindNone:
		return http.StatusOK
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindExtractionFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Message is the caller-facing error text. Causes are logged, never shown.
func (k Kind) Message() string {
	switch k {
	case KindNone:
		return ""
	case KindInvalidInput:
		return "url is required"
	case KindExtractionFailed:
		return "insufficient product information"
	case KindSynthesisFailed:
		return "decision failed"
	default:
		return "internal error"
	}
}

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInvalidInput:
		return "invalid_input"
	case KindExtractionFailed:
		return "extraction_failed"
	case KindSynthesisFailed:
		return "synthesis_failed"
	default:
		return "unexpected"
	}
}
