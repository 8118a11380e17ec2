// Package fetch retrieves remote JSON and CSV documents over HTTP.
package fetch

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// Error reports a failed or malformed remote read.
type Error struct {
	URL string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("fetch %s: %v", e.URL, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// Client fetches documents over HTTP with a bounded per-request timeout.
type Client struct {
	http    *http.Client
	timeout time.Duration
}

// DefaultTimeout bounds each remote fetch. An expired fetch fails the
// report for that project rather than hanging the whole run.
const DefaultTimeout = 60 * time.Second

// NewClient returns a Client with a tuned HTTP transport (keep-alives
// matter when a report pulls several CSVs from the same bucket host).
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2: true,
	}
	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		timeout: timeout,
	}
}

// JSON fetches url and unmarshals the response body into v.
func (c *Client) JSON(ctx context.Context, url string, v any) error {
	body, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &Error{URL: url, Err: fmt.Errorf("malformed JSON: %w", err)}
	}
	return nil
}

// CSV fetches url and returns its rows keyed by the header line, in
// file order. Short rows are rejected rather than silently padded.
func (c *Client) CSV(ctx context.Context, url string) ([]map[string]string, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	reader := csv.NewReader(strings.NewReader(string(body)))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, &Error{URL: url, Err: fmt.Errorf("malformed CSV: %w", err)}
	}
	if len(records) == 0 {
		return nil, nil
	}
	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, name := range header {
			row[name] = record[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Raw fetches url and returns the response body unparsed.
func (c *Client) Raw(ctx context.Context, url string) ([]byte, error) {
	return c.get(ctx, url)
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{URL: url, Err: err}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, &Error{URL: url, Err: fmt.Errorf("status=%d body=%s", resp.StatusCode, string(b))}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{URL: url, Err: err}
	}
	return body, nil
}
