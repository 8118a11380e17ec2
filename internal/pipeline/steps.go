// Package pipeline emits the CI agent pipeline for a benchmark day:
// one bench step per (project, platform), a wait barrier, then the
// report-generation step.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/benchkite/benchkite/internal/config"
	"github.com/benchkite/benchkite/internal/metadata"
	"github.com/benchkite/benchkite/internal/storage"
)

// Step is one command step in the agent pipeline.
type Step struct {
	Label    string            `yaml:"label"`
	Commands []string          `yaml:"command"`
	Agents   map[string]string `yaml:"agents,omitempty"`
}

// Wait is the barrier between bench steps and report generation.
const Wait = "wait"

// Pipeline is the document uploaded to the agent. Steps holds Step
// values and Wait strings.
type Pipeline struct {
	Steps []any `yaml:"steps"`
}

// BenchSpec describes one bench step to build.
type BenchSpec struct {
	Project      config.Project
	Platform     string
	BinPaths     []string // benchmark binaries, in benchmarking order
	BinGsURI     string   // where env-setup downloads binaries from
	BenchRepo    string   // clone of the tool under test
	ExtraOptions string
	Date         time.Time
	Bucket       string
	DataDir      string
}

// BenchStep builds the step that runs the benchmark tool for one
// project on one platform and uploads everything it produced: raw
// data, the aggregate profile and the per-run JSON profiles.
func BenchStep(spec BenchSpec) Step {
	benchCmd := strings.Join([]string{
		"bazel",
		"run",
		"benchmark",
		"--",
		"--bazel_binaries=" + strings.Join(spec.BinPaths, ","),
		"--bazel_source=" + spec.BenchRepo,
		"--project_source=" + spec.Project.GitRepository,
		"--platform=" + spec.Platform,
		"--collect_memory",
		"--data_directory=" + spec.DataDir,
		"--csv_file_name=" + metadata.PerfDataFile,
		"--collect_json_profile",
		"--aggregate_json_profiles",
		spec.ExtraOptions,
		"--",
		spec.Project.BenchCommand,
	}, " ")

	subdir := metadata.DatedSubdir(spec.Project.StorageSubdir, spec.Date) + "/" + spec.Platform + "/"
	upload := storage.CopyTreeCommand(spec.DataDir+"/*", storage.Dest(spec.Bucket, subdir))

	return Step{
		Label:    fmt.Sprintf("Running benchmarks on project: %s (%s)", spec.Project.Name, spec.Platform),
		Commands: []string{envSetupCommand(spec.BinGsURI), benchCmd, upload},
		Agents:   map[string]string{"queue": spec.Platform},
	}
}

func envSetupCommand(gsURI string) string {
	return "benchkite env-setup --gs_uri=" + gsURI
}

// ReportStep builds the step that renders the daily report once every
// bench step has finished. With updateLatest the dated report is also
// copied to the project's fixed latest-report path, since the bucket
// has no symlinks.
func ReportStep(date time.Time, projectLabel, bucket, platform, reportName string, updateLatest bool) Step {
	commands := []string{strings.Join([]string{
		"benchkite",
		"report",
		"--date=" + date.Format("2006-01-02"),
		"--project=" + projectLabel,
		"--storage_bucket=" + bucket,
		"--report_name=" + reportName,
	}, " ")}

	if updateLatest {
		dated := storage.Dest(bucket, metadata.DatedSubdir(projectLabel, date), reportName+".html")
		latest := storage.Dest(bucket, projectLabel, "report_latest.html")
		commands = append(commands, storage.CopyCommand(dated, latest))
	}

	return Step{
		Label:    fmt.Sprintf("Generating report on %s for project: %s.", date.Format("2006-01-02"), projectLabel),
		Commands: commands,
		Agents:   map[string]string{"queue": platform},
	}
}

// Emit writes the pipeline document as YAML.
func Emit(w io.Writer, p Pipeline) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("could not encode pipeline: %w", err)
	}
	return nil
}

// runUpload is swappable in tests.
var runUpload = func(cmd *exec.Cmd) ([]byte, error) { return cmd.CombinedOutput() }

// Upload pipes the pipeline document to `buildkite-agent pipeline
// upload`, which schedules the steps on the running build.
func Upload(ctx context.Context, p Pipeline) error {
	var buf bytes.Buffer
	if err := Emit(&buf, p); err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, "buildkite-agent", "pipeline", "upload")
	cmd.Stdin = &buf
	out, err := runUpload(cmd)
	if err != nil {
		return fmt.Errorf("pipeline upload: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
