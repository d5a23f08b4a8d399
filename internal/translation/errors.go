package translation

import (
	"errors"
	"net/http"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

var (
	// ErrMissingAPIKey is returned when a translator is built without a key.
	ErrMissingAPIKey = errors.New("API key is required")

	// ErrBlocked is returned when the provider refuses the content on
	// safety grounds.
	ErrBlocked = errors.New("content blocked by provider safety filter")

	// ErrEmptyResponse is returned when the provider answers without text.
	ErrEmptyResponse = errors.New("provider returned no text")

	// ErrRetriesExhausted wraps the last transient error once the attempt
	// budget of a Policy is spent.
	ErrRetriesExhausted = errors.New("retry attempts exhausted")
)

// IsTransient reports whether err is a rate-limit or service-unavailable
// failure from either backend. Only those are worth retrying.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return transientStatus(apiErr.Code, apiErr.Status)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return transientStatus(apiErrPtr.Code, apiErrPtr.Status)
	}

	var oaiErr *openai.APIError
	if errors.As(err, &oaiErr) {
		return transientStatus(oaiErr.HTTPStatusCode, "")
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return transientStatus(reqErr.HTTPStatusCode, "")
	}

	return false
}

func transientStatus(code int, status string) bool {
	switch status {
	case "RESOURCE_EXHAUSTED", "UNAVAILABLE":
		return true
	}
	return code == http.StatusTooManyRequests || code == http.StatusServiceUnavailable
}
