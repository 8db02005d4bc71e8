// Package client talks to the two outside HTTP endpoints the dashboard uses:
// the location document URL and the route request endpoint.
// Neither call is retried; failures are reported to the caller as-is.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkordes/routing-dashboard/internal/domain"
)

// maxDocumentBytes bounds how much of a location document is read.
const maxDocumentBytes = 4 << 20

// HTTPStatusError reports a non-2xx response.
type HTTPStatusError struct {
	Code int
	Body string
}

func (e *HTTPStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP error! status: %d", e.Code)
	}
	return fmt.Sprintf("HTTP error! status: %d: %s", e.Code, e.Body)
}

// Client wraps an *http.Client with the request shapes the dashboard needs.
type Client struct {
	session *http.Client
}

// New returns a Client whose requests time out after timeout.
func New(timeout time.Duration) *Client {
	return &Client{session: &http.Client{Timeout: timeout}}
}

// FetchDocument GETs the location document at url and returns its body.
// Any transport failure or non-2xx status is wrapped in domain.ErrFetch.
func (c *Client) FetchDocument(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("client.FetchDocument: %w: create request: %w", domain.ErrFetch, err)
	}
	req.Header.Set("Accept", "application/xml, text/xml, */*")

	resp, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("client.FetchDocument: %w: %w", domain.ErrFetch, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return "", fmt.Errorf("client.FetchDocument: %w: read body: %w", domain.ErrFetch, err)
	}
	return string(body), nil
}

// SendRouteRequest POSTs rr as JSON to endpoint and returns the decoded JSON
// response. Any transport failure, non-2xx status, or 2xx reply whose body is
// not JSON (an empty body included) is wrapped in domain.ErrRouteRequest.
func (c *Client) SendRouteRequest(ctx context.Context, endpoint string, rr domain.RouteRequest) (any, error) {
	payload, err := json.Marshal(rr)
	if err != nil {
		return nil, fmt.Errorf("client.SendRouteRequest: %w: encode: %w", domain.ErrRouteRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("client.SendRouteRequest: %w: create request: %w", domain.ErrRouteRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("client.SendRouteRequest: %w: %w", domain.ErrRouteRequest, err)
	}
	defer resp.Body.Close()

	var out any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("client.SendRouteRequest: %w: decode response: %w", domain.ErrRouteRequest, err)
	}
	return out, nil
}

// do sends req and turns any status >= 300 into an *HTTPStatusError.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, &HTTPStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// StatusCode returns the HTTP status carried by err, or 0 if err did not
// come from a non-2xx response.
func StatusCode(err error) int {
	var he *HTTPStatusError
	if errors.As(err, &he) {
		return he.Code
	}
	return 0
}
