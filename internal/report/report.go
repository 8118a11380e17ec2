// Package report turns a day's raw benchmark measurements into an HTML
// report: fetch the METADATA descriptor and per-platform CSVs, reshape
// the samples into chart tables, render once, write once.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/benchkite/benchkite/internal/fetch"
	"github.com/benchkite/benchkite/internal/metadata"
	"github.com/benchkite/benchkite/internal/storage"
)

// Generator produces one report per (project, date) request.
type Generator struct {
	Fetcher *fetch.Client
	// Store uploads the finished report; nil disables uploading.
	Store      *storage.Client
	Phases     []string
	OutputDir  string
	ReportName string
	// StorageURL derives the HTTP root of a project's dated data.
	StorageURL func(bucket, project string, date time.Time) string
}

// NewGenerator returns a Generator with the default phase vocabulary.
func NewGenerator(fetcher *fetch.Client, outputDir string) *Generator {
	return &Generator{
		Fetcher:    fetcher,
		Phases:     DefaultPhases,
		OutputDir:  outputDir,
		ReportName: "report",
		StorageURL: metadata.StorageURL,
	}
}

// Generate fetches the project's data for the given date, builds the
// report and writes it under OutputDir. When Store and bucket are both
// set, the artifact is also copied to the dated bucket path. Returns
// the local path of the written report.
func (g *Generator) Generate(ctx context.Context, project string, date time.Time, bucket string) (string, error) {
	dataRoot := g.StorageURL(bucket, project, date)

	var meta metadata.Document
	if err := g.Fetcher.JSON(ctx, dataRoot+"/"+metadata.ObjectName, &meta); err != nil {
		return "", err
	}

	page := Page{Project: project, Date: date.Format("2006-01-02")}
	for _, entry := range meta.Platforms {
		section, err := g.platformSection(ctx, dataRoot, entry)
		if err != nil {
			return "", fmt.Errorf("platform %s: %w", entry.Platform, err)
		}
		page.Platforms = append(page.Platforms, section)
	}

	doc, err := Render(page)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return "", &RenderError{Path: g.OutputDir, Err: err}
	}
	path := filepath.Join(g.OutputDir, fmt.Sprintf("report_%s_%s.html", project, date.Format("20060102")))
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return "", &RenderError{Path: path, Err: err}
	}

	if g.Store != nil && bucket != "" {
		dest := storage.Dest(bucket, metadata.DatedSubdir(project, date), g.ReportName+".html")
		if err := g.Store.Copy(ctx, path, dest); err != nil {
			return path, err
		}
	}
	return path, nil
}

func (g *Generator) platformSection(ctx context.Context, dataRoot string, entry metadata.PlatformEntry) (PlatformSection, error) {
	perfURL := dataRoot + "/" + entry.PerfData
	perfRows, err := g.Fetcher.CSV(ctx, perfURL)
	if err != nil {
		return PlatformSection{}, err
	}
	records, err := parseRunRecords(perfRows)
	if err != nil {
		return PlatformSection{}, &fetch.Error{URL: perfURL, Err: err}
	}

	profileURL := dataRoot + "/" + entry.AggrJSONProfiles
	profileRows, err := g.Fetcher.CSV(ctx, profileURL)
	if err != nil {
		return PlatformSection{}, err
	}
	samples, err := parsePhaseSamples(profileRows)
	if err != nil {
		return PlatformSection{}, &fetch.Error{URL: profileURL, Err: err}
	}

	proportions, err := Proportions(samples)
	if err != nil {
		return PlatformSection{}, err
	}
	runs := Aggregate(records)

	wall, err := BuildWallTable(runs, proportions, g.Phases)
	if err != nil {
		return PlatformSection{}, err
	}
	memory := BuildMemoryTable(runs)

	return PlatformSection{
		Name: entry.Platform,
		Charts: []Chart{
			NewChart(entry.Platform, "wall", "Wall Time (s)", wall),
			NewChart(entry.Platform, "memory", "Memory (MB)", memory),
		},
	}, nil
}

// parseRunRecords converts performance CSV rows into RunRecords,
// keeping file order.
func parseRunRecords(rows []map[string]string) ([]RunRecord, error) {
	records := make([]RunRecord, 0, len(rows))
	for _, row := range rows {
		wall, err := strconv.ParseFloat(row["wall"], 64)
		if err != nil {
			return nil, fmt.Errorf("bad wall value %q: %w", row["wall"], err)
		}
		memory, err := strconv.ParseFloat(row["memory"], 64)
		if err != nil {
			return nil, fmt.Errorf("bad memory value %q: %w", row["memory"], err)
		}
		records = append(records, RunRecord{
			RunID:  row["bazel_commit"],
			Wall:   wall,
			Memory: memory,
		})
	}
	return records, nil
}

// parsePhaseSamples converts aggregate-profile CSV rows into PhaseSamples.
func parsePhaseSamples(rows []map[string]string) ([]PhaseSample, error) {
	samples := make([]PhaseSample, 0, len(rows))
	for _, row := range rows {
		dur, err := strconv.ParseFloat(row["dur"], 64)
		if err != nil {
			return nil, fmt.Errorf("bad dur value %q: %w", row["dur"], err)
		}
		samples = append(samples, PhaseSample{
			RunID:    row["bazel_source"],
			Phase:    row["name"],
			Duration: dur,
		})
	}
	return samples, nil
}
