package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// TokenSource supplies the bearer token attached to outgoing requests.
// An empty string means the request goes out unauthenticated.
type TokenSource func() string

// Client bundles the HTTP plumbing shared by the REST clients: base URL,
// a configured http.Client with the bearer-injecting transport, and the
// logger. Every call is a single round trip; there are no retries and no
// caching, and the only timeout is the http.Client's own.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// NewClient builds a Client for the given base URL. The token source may be
// nil for endpoints that need no authentication.
func NewClient(log *slog.Logger, baseURL string, timeout time.Duration, token TokenSource) *Client {
	transport := http.RoundTripper(http.DefaultTransport)
	if token != nil {
		transport = &bearerTransport{base: http.DefaultTransport, token: token}
	}
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		log: log,
	}
}

// bearerTransport injects the Authorization header on every request, the
// counterpart of the Bearer middleware on the backend side.
type bearerTransport struct {
	base  http.RoundTripper
	token TokenSource
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if tok := t.token(); tok != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return t.base.RoundTrip(req)
}

// do issues one JSON round trip. A non-2xx response is decoded into an
// *APIError; a 2xx response is decoded into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, header http.Header, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// decodeAPIError pulls the optional message field out of an error response
// body. A body that is not JSON, or has no message, yields an APIError with
// the status code alone.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Message = body.Message
	}
	return apiErr
}
