// cmd/benchkite/report_test.go
package benchkite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/benchkite/benchkite/internal/report"
)

func TestReportCmd(t *testing.T) {
	originalGenerate := generateReport
	originalProjects := reportProjects
	defer func() {
		generateReport = originalGenerate
		reportProjects = originalProjects
	}()

	var gotProjects []string
	var gotDate time.Time
	var gotBucket string
	generateReport = func(ctx context.Context, g *report.Generator, project string, date time.Time, bucket string) (string, error) {
		gotProjects = append(gotProjects, project)
		gotDate = date
		gotBucket = bucket
		return "/tmp/report_" + project + ".html", nil
	}

	reportProjects = []string{"bazel", "tensorflow"}
	viper.Set("report.date", "2026-08-28")
	viper.Set("report.storage_bucket", "perf-bucket")
	viper.Set("report.report_name", "report")
	defer func() {
		viper.Set("report.date", nil)
		viper.Set("report.storage_bucket", nil)
		viper.Set("report.report_name", nil)
	}()

	if err := reportCmd.RunE(reportCmd, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(gotProjects) != 2 || gotProjects[0] != "bazel" || gotProjects[1] != "tensorflow" {
		t.Fatalf("expected both projects to be generated, got %v", gotProjects)
	}
	if gotDate.Format("2006-01-02") != "2026-08-28" {
		t.Fatalf("expected date 2026-08-28, got %v", gotDate)
	}
	if gotBucket != "perf-bucket" {
		t.Fatalf("expected bucket 'perf-bucket', got %q", gotBucket)
	}
}

func TestReportCmdOneFailureStillRunsRest(t *testing.T) {
	originalGenerate := generateReport
	originalProjects := reportProjects
	defer func() {
		generateReport = originalGenerate
		reportProjects = originalProjects
	}()

	var gotProjects []string
	generateReport = func(ctx context.Context, g *report.Generator, project string, date time.Time, bucket string) (string, error) {
		gotProjects = append(gotProjects, project)
		if project == "bazel" {
			return "", errors.New("boom")
		}
		return "/tmp/report.html", nil
	}

	reportProjects = []string{"bazel", "tensorflow"}
	viper.Set("report.date", "2026-08-28")
	defer viper.Set("report.date", nil)

	err := reportCmd.RunE(reportCmd, nil)
	if err == nil {
		t.Fatal("expected an error when a project fails")
	}
	if len(gotProjects) != 2 {
		t.Fatalf("expected the second project to still run, got %v", gotProjects)
	}
}

func TestReportCmdRequiresProject(t *testing.T) {
	originalProjects := reportProjects
	defer func() { reportProjects = originalProjects }()

	reportProjects = nil
	if err := reportCmd.RunE(reportCmd, nil); err == nil {
		t.Fatal("expected an error without --project")
	}
}

func TestResolveDate(t *testing.T) {
	date, err := resolveDate("2026-08-28")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if date.Format("20060102") != "20260828" {
		t.Fatalf("unexpected date: %v", date)
	}

	if _, err := resolveDate("28-08-2026"); err == nil {
		t.Fatal("expected an error for a malformed date")
	}
}
