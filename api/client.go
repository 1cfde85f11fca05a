// Package api is the HTTP client for the school-records backend. Auth
// endpoints implement session.Verifier; the entity endpoints back the
// console's CRUD screens.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"schooldesk/session"
)

type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient builds a client for the backend at baseURL (including any path
// prefix, e.g. http://localhost:8000/api). The timeout applies per request;
// a timed-out call fails like any other so loading state can never hang.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// errorResponse is the backend's failure payload. Detail may be absent.
type errorResponse struct {
	Detail string `json:"detail"`
}

// do performs a JSON request. The token, when set, travels as the `token`
// query parameter, which is how the backend expects the credential. Non-2xx
// responses come back as session rejections carrying the backend detail or
// a generic status message.
func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, body, out any) error {
	q := url.Values{}
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	if token != "" {
		q.Set("token", token)
	}

	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return c.rejectionFrom(res)
	}

	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) rejectionFrom(res *http.Response) error {
	var payload errorResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil || payload.Detail == "" {
		c.logger.Debug("backend error without detail", "status", res.StatusCode)
		return session.Reject(fmt.Sprintf("Request failed (status %d)", res.StatusCode))
	}
	return session.Reject(payload.Detail)
}

func searchQuery(search string) url.Values {
	q := url.Values{}
	if search = strings.TrimSpace(search); search != "" {
		q.Set("search", search)
	}
	return q
}
