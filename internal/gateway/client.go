// Package gateway is a thin client for the hosted backend: PostgREST-style
// table access under /rest/v1 and password auth under /auth/v1.
//
// Calls are independent. There is no retry, no cache and no de-duplication;
// the first failure is returned to the caller as a *Error.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"encore-rentals/internal/logger"
)

const serviceName = "backend"

// TokenSource supplies the bearer credential of the current session.
type TokenSource interface {
	AccessToken() (string, bool)
}

type Config struct {
	URL    string
	APIKey string
	// HTTPClient defaults to a client without a timeout; use ctx deadlines.
	HTTPClient *http.Client
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	tokens     TokenSource
}

func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("backend URL is required")
	}
	if _, err := url.Parse(cfg.URL); err != nil {
		return nil, fmt.Errorf("invalid backend URL: %w", err)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("backend API key is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
	}, nil
}

// WithTokenSource returns a copy of c that authenticates table calls with the
// token held by ts. Without one, calls run with the API key only.
func (c *Client) WithTokenSource(ts TokenSource) *Client {
	cp := *c
	cp.tokens = ts
	return &cp
}

// Fetch reads the rows of table matching f into out, which must point to a slice.
func (c *Client) Fetch(ctx context.Context, table string, f *Filter, out any) error {
	if table == "" {
		return fmt.Errorf("table is required")
	}
	path := "/rest/v1/" + url.PathEscape(table)
	if q := f.Encode(); q != "" {
		path += "?" + q
	}

	body, err := c.do(ctx, "fetch "+table, http.MethodGet, path, nil, true)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Kind: KindDecode, Op: "fetch " + table, Err: err}
	}
	return nil
}

// Insert stores one row and decodes the stored representation into out.
func (c *Client) Insert(ctx context.Context, table string, row any, out any) error {
	if table == "" {
		return fmt.Errorf("table is required")
	}
	payload, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to encode %s row: %w", table, err)
	}

	body, err := c.do(ctx, "insert "+table, http.MethodPost, "/rest/v1/"+url.PathEscape(table), payload, true)
	if err != nil {
		return err
	}
	return decodeSingle("insert "+table, body, out)
}

// Update patches the row with the given id and decodes the new representation
// into out. patch should only carry the columns being changed.
func (c *Client) Update(ctx context.Context, table, id string, patch any, out any) error {
	if id == "" {
		return fmt.Errorf("id is required")
	}
	return c.UpdateWhere(ctx, table, Where().Eq("id", id), patch, out)
}

// UpdateWhere patches the rows matching f and decodes the first new
// representation into out. It returns ErrNoRows when nothing matched, so a
// filter on the current value of a column acts as a compare-and-set.
func (c *Client) UpdateWhere(ctx context.Context, table string, f *Filter, patch any, out any) error {
	if table == "" {
		return fmt.Errorf("table is required")
	}
	if f.Encode() == "" {
		return fmt.Errorf("update filter is required")
	}
	payload, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("failed to encode %s patch: %w", table, err)
	}

	path := "/rest/v1/" + url.PathEscape(table) + "?" + f.Encode()
	body, err := c.do(ctx, "update "+table, http.MethodPatch, path, payload, true)
	if err != nil {
		return err
	}
	return decodeSingle("update "+table, body, out)
}

func decodeSingle(op string, body []byte, out any) error {
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return &Error{Kind: KindDecode, Op: op, Err: err}
	}
	if len(rows) == 0 {
		return ErrNoRows
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(rows[0], out); err != nil {
		return &Error{Kind: KindDecode, Op: op, Err: err}
	}
	return nil
}

// do performs one request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, op, method, path string, payload []byte, withToken bool) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Op: op, Err: err}
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if method == http.MethodPost || method == http.MethodPatch {
		req.Header.Set("Prefer", "return=representation")
	}
	if withToken && c.tokens != nil {
		if token, ok := c.tokens.AccessToken(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	logger.ExternalServiceCall(serviceName, op, "method", method, "path", req.URL.Path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		gerr := &Error{Kind: KindTransport, Op: op, Err: err}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			gerr.Detail = ctx.Err().Error()
		}
		logger.ExternalServiceResult(serviceName, op, gerr)
		return nil, gerr
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		gerr := &Error{Kind: KindTransport, Op: op, Status: resp.StatusCode, Err: err}
		logger.ExternalServiceResult(serviceName, op, gerr)
		return nil, gerr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		gerr := statusError(op, resp.StatusCode, body)
		logger.ExternalServiceResult(serviceName, op, gerr)
		return nil, gerr
	}

	logger.ExternalServiceResult(serviceName, op, nil, "status", resp.StatusCode)
	return body, nil
}
