package crawler

import (
	"errors"
	"fmt"

	"github.com/JakeFAU/wine-searcher-crawler/internal/wine"
)

// NetworkError indicates the fetch transport failed or produced no body.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error fetching %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// TimeoutError indicates the fetch did not finish within TimeoutMs.
type TimeoutError struct {
	URL       string
	TimeoutMs int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("fetching %s timed out after %dms", e.URL, e.TimeoutMs)
}

// ParsingError indicates a page could not be turned into WineData. It keeps
// only the root cause's message, never the cause itself.
type ParsingError struct {
	SourceURL string
	Message   string
}

func (e *ParsingError) Error() string {
	return fmt.Sprintf("parsing %s failed: %s", e.SourceURL, e.Message)
}

// ErrEmptyResponse is wrapped by NetworkError when a fetch returns a blank body.
var ErrEmptyResponse = errors.New("empty response")

// Error kinds reported by ErrorKind.
const (
	KindValidation = "validation"
	KindNetwork    = "network"
	KindTimeout    = "timeout"
	KindParsing    = "parsing"
	KindInternal   = "internal"
)

// ErrorKind classifies err into one of the taxonomy kinds.
func ErrorKind(err error) string {
	var timeout *TimeoutError
	if errors.As(err, &timeout) {
		return KindTimeout
	}
	var network *NetworkError
	if errors.As(err, &network) {
		return KindNetwork
	}
	var parsing *ParsingError
	if errors.As(err, &parsing) {
		return KindParsing
	}
	var validation *wine.ValidationError
	if errors.As(err, &validation) {
		return KindValidation
	}
	return KindInternal
}
