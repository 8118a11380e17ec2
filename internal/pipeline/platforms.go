package pipeline

import (
	"context"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/benchkite/benchkite/internal/fetch"
)

// ciConfig is the slice of a project's CI configuration we care about:
// the task table, from which the set of build platforms is derived.
type ciConfig struct {
	Tasks map[string]ciTask `yaml:"tasks"`
}

type ciTask struct {
	Platform string `yaml:"platform"`
}

// Platforms fetches a project's CI config and returns the platforms
// its tasks run on, filtered against the whitelist, deduplicated and
// sorted for deterministic step emission. A task without an explicit
// platform field uses its task name as the platform.
func Platforms(ctx context.Context, client *fetch.Client, configURL string, whitelist []string) ([]string, error) {
	body, err := client.Raw(ctx, configURL)
	if err != nil {
		return nil, err
	}
	var cfg ciConfig
	if err := yaml.Unmarshal(body, &cfg); err != nil {
		return nil, &fetch.Error{URL: configURL, Err: fmt.Errorf("malformed CI config: %w", err)}
	}

	seen := make(map[string]bool)
	var platforms []string
	for name, task := range cfg.Tasks {
		platform := task.Platform
		if platform == "" {
			platform = name
		}
		if !slices.Contains(whitelist, platform) || seen[platform] {
			continue
		}
		seen[platform] = true
		platforms = append(platforms, platform)
	}
	slices.Sort(platforms)
	return platforms, nil
}
