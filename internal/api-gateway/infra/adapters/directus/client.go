// Package directus adapts a Directus instance to the gateway's ContentStore
// and AuthProvider ports over its REST API.
package directus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// maxErrorBody caps how much of an error response is kept for logging.
const maxErrorBody = 4 << 10

// NewHTTPClient returns the instrumented client shared by every Directus call.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// TokenSource yields the bearer token a Client authenticates with. An empty
// token means the request is sent anonymously.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed bearer token: a service static token or the caller's
// own access token.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// APIError is a non-2xx answer from Directus.
type APIError struct {
	Status   int
	Code     string
	Messages []string
}

// Reason is the human readable part of the error.
func (e *APIError) Reason() string {
	if len(e.Messages) == 0 {
		return http.StatusText(e.Status)
	}
	return strings.Join(e.Messages, "; ")
}

func (e *APIError) Error() string {
	msg := e.Reason()
	if e.Code != "" {
		return fmt.Sprintf("directus: %d %s: %s", e.Status, e.Code, msg)
	}
	return fmt.Sprintf("directus: %d: %s", e.Status, msg)
}

type errorBody struct {
	Errors []struct {
		Message    string `json:"message"`
		Extensions struct {
			Code string `json:"code"`
		} `json:"extensions"`
	} `json:"errors"`
}

// Client performs JSON requests against one Directus base URL.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

func NewClient(baseURL string, httpClient *http.Client, tokens TokenSource) *Client {
	if tokens == nil {
		tokens = StaticToken("")
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
	}
}

// do sends body (if any) as JSON and decodes the "data" member of the reply
// into out (if any). It reports whether the reply had a body at all.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (bool, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return false, fmt.Errorf("directus: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return false, fmt.Errorf("directus: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return false, fmt.Errorf("directus: authenticate: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("directus: %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return false, decodeError(res)
	}
	if res.StatusCode == http.StatusNoContent {
		return false, nil
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return false, fmt.Errorf("directus: read %s %s: %w", method, path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return false, nil
	}
	if out == nil {
		return true, nil
	}

	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return true, fmt.Errorf("directus: decode %s %s: %w", method, path, err)
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return true, fmt.Errorf("directus: decode %s %s data: %w", method, path, err)
	}
	return true, nil
}

func decodeError(res *http.Response) error {
	apiErr := &APIError{Status: res.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))

	var body errorBody
	if json.Unmarshal(raw, &body) == nil {
		for _, e := range body.Errors {
			apiErr.Messages = append(apiErr.Messages, e.Message)
			if apiErr.Code == "" {
				apiErr.Code = e.Extensions.Code
			}
		}
	}
	return apiErr
}
