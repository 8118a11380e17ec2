// Package metadata models the METADATA descriptor written next to each
// day's benchmark outputs. The report generator later reads it to find
// the per-platform measurement files.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Well-known object names inside a dated storage subdirectory.
const (
	ObjectName       = "METADATA"
	PerfDataFile     = "perf_data.csv"
	AggrProfilesFile = "aggr_json_profiles.csv"
)

// Document describes one day's benchmark runs for a project and where
// the measurements live.
type Document struct {
	Name          string          `json:"name"`
	ProjectSource string          `json:"project_source"`
	Command       string          `json:"command"`
	DataRoot      string          `json:"data_root"`
	Binaries      []string        `json:"binaries"`
	Platforms     []PlatformEntry `json:"platforms"`
}

// PlatformEntry points at the measurement files produced on one platform.
type PlatformEntry struct {
	Platform         string `json:"platform"`
	PerfData         string `json:"perf_data"`
	AggrJSONProfiles string `json:"aggr_json_profiles"`
}

// DatedSubdir returns the storage subdirectory for a project and date,
// e.g. "bazel/2026/08/28".
func DatedSubdir(project string, date time.Time) string {
	return fmt.Sprintf("%s/%s", project, date.Format("2006/01/02"))
}

// StorageURL returns the public HTTP root for a project's dated
// subdirectory on the given bucket.
func StorageURL(bucket, project string, date time.Time) string {
	return fmt.Sprintf("https://%s.storage.googleapis.com/%s", bucket, DatedSubdir(project, date))
}

// Build assembles the Document for a project's runs on the given date.
func Build(label, projectSource, command string, date time.Time, platforms []string, bucket string, binaries []string) Document {
	entries := make([]PlatformEntry, 0, len(platforms))
	for _, platform := range platforms {
		entries = append(entries, PlatformEntry{
			Platform:         platform,
			PerfData:         fmt.Sprintf("%s/%s", platform, PerfDataFile),
			AggrJSONProfiles: fmt.Sprintf("%s/%s", platform, AggrProfilesFile),
		})
	}
	return Document{
		Name:          label,
		ProjectSource: projectSource,
		Command:       command,
		DataRoot:      StorageURL(bucket, label, date),
		Binaries:      binaries,
		Platforms:     entries,
	}
}

// WriteFile writes the document as JSON to path.
func (d Document) WriteFile(path string) error {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("could not marshal metadata: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("could not write metadata: %w", err)
	}
	return nil
}
