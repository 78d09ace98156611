package fetcher

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies why a fetch failed.
type Kind int

const (
	KindUnknown Kind = iota
	// KindInvalidURL means the input did not parse as an absolute http(s) URL.
	KindInvalidURL
	// KindInvalidResponse means no 200 response was obtained.
	KindInvalidResponse
	// KindUnsupportedPayload means the 200 body is not a decodable image.
	KindUnsupportedPayload
)

// String returns the snake_case name used in metrics and API payloads.
func (k Kind) String() string {
	switch k {
	case KindInvalidURL:
		return "invalid_url"
	case KindInvalidResponse:
		return "invalid_response"
	case KindUnsupportedPayload:
		return "unsupported_payload"
	default:
		return "unknown"
	}
}

// Error is returned by Fetch. Its message is meant to be shown to users.
type Error struct {
	Kind   Kind
	URL    string
	Status int   // HTTP status for KindInvalidResponse, 0 if no response was received
	Err    error // underlying cause, may be nil
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidURL:
		return fmt.Sprintf("invalid URL %q", e.URL)
	case KindInvalidResponse:
		if e.Status != 0 {
			return fmt.Sprintf("invalid response: HTTP %d %s", e.Status, http.StatusText(e.Status))
		}
		if e.Err != nil {
			return "invalid response: " + e.Err.Error()
		}
		return "invalid response"
	case KindUnsupportedPayload:
		if e.Err != nil {
			return "unsupported payload: " + e.Err.Error()
		}
		return "unsupported payload"
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "fetch failed"
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// IsInvalidURL reports whether err is a KindInvalidURL fetch error.
func IsInvalidURL(err error) bool { return KindOf(err) == KindInvalidURL }

// IsInvalidResponse reports whether err is a KindInvalidResponse fetch error.
func IsInvalidResponse(err error) bool { return KindOf(err) == KindInvalidResponse }

// IsUnsupportedPayload reports whether err is a KindUnsupportedPayload fetch error.
func IsUnsupportedPayload(err error) bool { return KindOf(err) == KindUnsupportedPayload }
