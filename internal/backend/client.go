// Package backend is the HTTP client for the DonateRaid core platform. All
// business logic (payments, order state, inventory) lives there; this service
// only aggregates and forwards.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/donateraid/storefront-api/internal/domain"
	"github.com/donateraid/storefront-api/internal/metrics"
)

// APIError carries a rejection from the core platform. Detail is the
// platform's own message, passed through verbatim so the user sees the real
// reason.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Detail)
}

// Unwrap classifies the failure: 5xx means the platform is down, anything
// else is a rejection of this particular request.
func (e *APIError) Unwrap() error {
	if e.StatusCode >= 500 {
		return domain.ErrBackendUnavailable
	}
	return domain.ErrBackendRejected
}

// Client talks to the core platform over REST. A circuit breaker wraps every
// call so a dead upstream fails fast instead of piling up timeouts.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "donateraid-core",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// A 4xx is the platform answering, not the platform being down
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrBackendRejected)
		},
	})
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    breaker,
	}
}

// do performs one request and decodes a successful response into out (out may
// be nil). Rejections come back as *APIError; an open breaker or transport
// failure maps to ErrBackendUnavailable.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	data, err := c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
		if err != nil {
			return nil, err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
		if err != nil {
			return nil, fmt.Errorf("%w: read response: %v", domain.ErrBackendUnavailable, err)
		}

		if resp.StatusCode >= 400 {
			return nil, decodeAPIError(resp.StatusCode, raw)
		}
		return raw, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrBackendUnavailable) || errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.BackendFailures.WithLabelValues(operationLabel(method, path)).Inc()
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: circuit open", domain.ErrBackendUnavailable)
		}
		return err
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// operationLabel collapses numeric path segments so order and game ids do not
// explode the metric cardinality.
func operationLabel(method, path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if _, err := strconv.Atoi(seg); err == nil && seg != "" {
			segments[i] = "{id}"
		}
	}
	return method + " " + strings.Join(segments, "/")
}

// decodeAPIError extracts the platform's error message. FastAPI puts it under
// "detail"; other deployments use "error" or "message". Client errors (4xx)
// are rejections the user can act on, 5xx counts as the backend being down.
func decodeAPIError(status int, raw []byte) error {
	var payload struct {
		Detail  string `json:"detail"`
		Err     string `json:"error"`
		Message string `json:"message"`
	}
	detail := ""
	if json.Unmarshal(raw, &payload) == nil {
		switch {
		case payload.Detail != "":
			detail = payload.Detail
		case payload.Err != "":
			detail = payload.Err
		case payload.Message != "":
			detail = payload.Message
		}
	}
	if detail == "" {
		detail = http.StatusText(status)
	}

	return &APIError{StatusCode: status, Detail: detail}
}
