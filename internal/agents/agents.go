// Package agents talks to the CI provider's REST API to list and stop
// build agents. Stopping an agent makes its supervisor restart it with
// a fresh environment.
package agents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the Buildkite REST API root.
const DefaultBaseURL = "https://api.buildkite.com"

// Agent is one CI agent as returned by the API.
type Agent struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Client is an authenticated Buildkite API client.
type Client struct {
	// BaseURL defaults to DefaultBaseURL; tests point it elsewhere.
	BaseURL string
	Token   string

	http *http.Client
}

// NewClient returns a Client using token for bearer auth. The token
// needs read_agents and write_agents permissions.
func NewClient(token string) *Client {
	return &Client{
		Token: token,
		http:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return DefaultBaseURL
}

// List returns every agent in the organization, following pagination
// until a page comes back empty.
func (c *Client) List(ctx context.Context, org string) ([]Agent, error) {
	var all []Agent
	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/v2/organizations/%s/agents?page=%d&per_page=100", c.baseURL(), org, page)
		var batch []Agent
		if err := c.do(ctx, http.MethodGet, url, nil, &batch); err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			return all, nil
		}
		all = append(all, batch...)
	}
}

// Stop asks the agent to disconnect. With force=false the agent
// finishes its current job first.
func (c *Client) Stop(ctx context.Context, org, agentID string, force bool) error {
	url := fmt.Sprintf("%s/v2/organizations/%s/agents/%s/stop", c.baseURL(), org, agentID)
	body := map[string]bool{"force": force}
	return c.do(ctx, http.MethodPut, url, body, nil)
}

// StopResult records the outcome of one stop attempt.
type StopResult struct {
	Agent Agent
	Err   error
}

// StopMatching stops every agent whose name contains filter. One
// failing agent does not abort the sweep; each outcome is reported.
func (c *Client) StopMatching(ctx context.Context, org, filter string) ([]StopResult, error) {
	list, err := c.List(ctx, org)
	if err != nil {
		return nil, err
	}
	var results []StopResult
	for _, agent := range list {
		if !strings.Contains(agent.Name, filter) {
			continue
		}
		results = append(results, StopResult{Agent: agent, Err: c.Stop(ctx, org, agent.ID, false)})
	}
	return results, nil
}

func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: status=%d body=%s", method, url, resp.StatusCode, string(b))
	}
	if out == nil {
		return nil
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("%s %s: malformed response: %w", method, url, err)
	}
	return nil
}
