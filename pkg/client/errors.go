package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// Sentinel errors mapped from server error codes.
// Use errors.Is() to check.
var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrDocumentNotFound  = errors.New("document not found")
	ErrRateLimited       = errors.New("rate limited")
	ErrSearchUnavailable = errors.New("search unavailable")
)

// APIError is a non-2xx response from the server. It unwraps to the
// sentinel matching its code, so errors.Is works through it.
type APIError struct {
	StatusCode int
	Code       string
	Message    string

	// RetryAfter is set for rate-limited responses when the server
	// sent a Retry-After header.
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	switch e.Code {
	case "bad_request", "validation_failed":
		return ErrInvalidRequest
	case "document_not_found":
		return ErrDocumentNotFound
	case "rate_limited":
		return ErrRateLimited
	case "search_unavailable":
		return ErrSearchUnavailable
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err := json.Unmarshal(raw, &body); err == nil && body.Code != "" {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	if ra := resp.Header.Get("Retry-After"); ra != "" {
		if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
			apiErr.RetryAfter = time.Duration(secs) * time.Second
		}
	}
	return apiErr
}
