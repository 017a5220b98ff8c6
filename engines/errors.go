package engines

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

const maxBodyExcerpt = 512

var (
	ErrTransport   = errors.New("transport failure")
	ErrHTTPStatus  = errors.New("unexpected http status")
	ErrChallenge   = errors.New("upstream challenge page")
	ErrDecode      = errors.New("invalid input data")
	ErrExtraction  = errors.New("extraction failed")
	ErrUpstreamAPI = errors.New("upstream api error")
	ErrUnsupported = errors.New("unsupported input")
)

type TransportError struct {
	Engine string
	Err    error
}

type HTTPStatusError struct {
	Engine     string
	StatusCode int
	Body       string
}

type ChallengeError struct {
	Engine string
	Marker string
}

type DecodeError struct {
	Engine string
	Err    error
}

type ExtractionError struct {
	Engine string
	Reason string
	Err    error
}

type UpstreamAPIError struct {
	Engine  string
	Status  int
	Message string
}

type UnsupportedError struct {
	Engine string
	Input  string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %s", e.Engine, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *HTTPStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected http status %d", e.Engine, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected http status %d: %s", e.Engine, e.StatusCode, e.Body)
}

func (e *HTTPStatusError) Is(target error) bool {
	return target == ErrHTTPStatus
}

func (e *ChallengeError) Error() string {
	return fmt.Sprintf("%s: request was blocked by an upstream challenge or maintenance page (%q)", e.Engine, e.Marker)
}

func (e *ChallengeError) Is(target error) bool {
	return target == ErrChallenge
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: invalid input data: %s", e.Engine, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

func (e *ExtractionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: extraction failed: %s", e.Engine, e.Reason)
	}
	return fmt.Sprintf("%s: extraction failed: %s: %s", e.Engine, e.Reason, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtraction
}

func (e *UpstreamAPIError) Error() string {
	return fmt.Sprintf("%s: upstream api error (status %d): %s", e.Engine, e.Status, e.Message)
}

func (e *UpstreamAPIError) Is(target error) bool {
	return target == ErrUpstreamAPI
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s: searching by %s is not supported", e.Engine, e.Input)
}

func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

// Kind returns a stable label for err, suitable for metrics and API payloads.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrChallenge):
		return "challenge"
	case errors.Is(err, ErrHTTPStatus):
		return "http_status"
	case errors.Is(err, ErrUpstreamAPI):
		return "upstream_api"
	case errors.Is(err, ErrExtraction):
		return "extraction"
	case errors.Is(err, ErrDecode):
		return "decode"
	case errors.Is(err, ErrUnsupported):
		return "unsupported"
	case errors.Is(err, ErrTransport):
		return "transport"
	default:
		return "unknown"
	}
}

func excerpt(body []byte) string {
	if len(body) <= maxBodyExcerpt {
		return string(body)
	}
	cut := maxBodyExcerpt
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return string(body[:cut]) + "..."
}
