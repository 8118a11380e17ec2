package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(server *httptest.Server) *Client {
	c := NewClient("test-token")
	c.BaseURL = server.URL
	return c
}

func TestListFollowsPagination(t *testing.T) {
	pages := map[string][]Agent{
		"1": {{ID: "a1", Name: "docker-linux-1"}, {ID: "a2", Name: "docker-linux-2"}},
		"2": {{ID: "a3", Name: "windows-1"}},
		"3": {},
	}
	var authSeen string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authSeen = r.Header.Get("Authorization")
		require.Equal(t, "/v2/organizations/bazel/agents", r.URL.Path)
		json.NewEncoder(w).Encode(pages[r.URL.Query().Get("page")])
	}))
	t.Cleanup(server.Close)

	list, err := newTestClient(server).List(context.Background(), "bazel")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a3", list[2].ID)
	assert.Equal(t, "Bearer test-token", authSeen)
}

func TestStopMatchingFiltersOnName(t *testing.T) {
	var stopped []string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v2/organizations/bazel/agents", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" {
			fmt.Fprint(w, "[]")
			return
		}
		json.NewEncoder(w).Encode([]Agent{
			{ID: "a1", Name: "docker-linux-1"},
			{ID: "a2", Name: "windows-1"},
			{ID: "a3", Name: "docker-linux-2"},
		})
	})
	mux.HandleFunc("PUT /v2/organizations/bazel/agents/{id}/stop", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]bool
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.False(t, body["force"])
		stopped = append(stopped, r.PathValue("id"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	results, err := newTestClient(server).StopMatching(context.Background(), "bazel", "docker")
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, res := range results {
		assert.NoError(t, res.Err)
	}
	assert.Equal(t, []string{"a1", "a3"}, stopped)
}

func TestStopMatchingRecordsPerAgentFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v2/organizations/bazel/agents", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" {
			fmt.Fprint(w, "[]")
			return
		}
		json.NewEncoder(w).Encode([]Agent{
			{ID: "a1", Name: "docker-1"},
			{ID: "a2", Name: "docker-2"},
		})
	})
	mux.HandleFunc("PUT /v2/organizations/bazel/agents/a1/stop", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "conflict", http.StatusConflict)
	})
	mux.HandleFunc("PUT /v2/organizations/bazel/agents/a2/stop", func(w http.ResponseWriter, r *http.Request) {})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	results, err := newTestClient(server).StopMatching(context.Background(), "bazel", "docker")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
}

func TestListNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	_, err := newTestClient(server).List(context.Background(), "bazel")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=401")
}
