package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxErrorBodyBytes = 4 * 1024

// APIError is a non-success response from the news API with the
// server-provided message. Transport failures are not APIErrors; they surface
// as wrapped errors from the underlying HTTP client.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: unexpected status %d", e.StatusCode)
	}

	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func apiErrorFromResponse(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil {
		return apiErr
	}

	var envelope errorEnvelope
	if err = json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Message = envelope.Error.Message

		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(body))

	return apiErr
}
