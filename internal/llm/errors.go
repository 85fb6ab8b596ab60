package llm

import "errors"

var (
	// ErrUnavailable indicates no endpoint of the provider produced a response.
	ErrUnavailable = errors.New("llm provider unavailable")

	// ErrEmptySummary indicates the provider answered without any summary text.
	ErrEmptySummary = errors.New("llm response has no summary")

	// ErrMissingKey indicates the provider needs an API key that is not configured.
	ErrMissingKey = errors.New("llm api key missing")
)
