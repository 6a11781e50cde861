// Package api reads the countries snapshot and per-country detail over HTTP
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lixenwraith/globe-explorer/location"
)

// DefaultTimeout bounds one request when the caller's context has no deadline
const DefaultTimeout = 30 * time.Second

// maxBody caps a response body read
const maxBody = 8 << 20

// ErrNotFound is returned when the detail source has no entry for an id
var ErrNotFound = errors.New("not found")

// StatusError is a non-success response
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Path, e.Code)
}

// Client handles communication with the countries API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client; timeout <= 0 selects DefaultTimeout
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the normalized base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Healthcheck checks the API is reachable
func (c *Client) Healthcheck(ctx context.Context) error {
	resp, err := c.get(ctx, "/healthcheck")
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// Locations reads the countries snapshot, an empty or null body is an empty set
func (c *Client) Locations(ctx context.Context) ([]location.Record, error) {
	resp, err := c.get(ctx, "/countries")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read countries: %w", err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, nil
	}

	var records []location.Record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to decode countries: %w", err)
	}
	return records, nil
}

// Detail reads the detail payload for one location
func (c *Client) Detail(ctx context.Context, id int64) (location.Detail, error) {
	resp, err := c.get(ctx, "/country/"+strconv.FormatInt(id, 10))
	if err != nil {
		return location.Detail{}, err
	}
	defer resp.Body.Close()

	var d location.Detail
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&d); err != nil {
		return location.Detail{}, fmt.Errorf("failed to decode country %d: %w", id, err)
	}
	if d.ID == 0 {
		d.ID = id
	}
	return d, nil
}

// get issues a GET and maps non-200 statuses to errors, the caller closes the body on success
func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", path, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return resp, nil
	case http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	default:
		resp.Body.Close()
		return nil, &StatusError{Path: path, Code: resp.StatusCode}
	}
}
