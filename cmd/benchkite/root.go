// cmd/benchkite/root.go
package benchkite

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// rootCmd is the base Cobra command for the benchkite application.
// All subcommands are attached to this root to form the complete CLI.
var rootCmd = &cobra.Command{
	Use:   "benchkite",
	Short: "Benchmark CI pipeline and daily report generator",
	Long: `benchkite drives the benchmarking CI pipeline: it emits the agent
pipeline steps that run the benchmarks per platform, uploads results and
the METADATA descriptor to the storage bucket, and renders the daily
HTML report from those results.`,
}

// Terminal styles shared by the subcommands.
var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// Execute runs the root Cobra command and all registered subcommands.
// It prints any returned error and exits the process with a non-zero
// status code on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

// resolveDate parses a --date flag value, defaulting to today.
func resolveDate(value string) (time.Time, error) {
	if value == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q, want YYYY-MM-DD: %w", value, err)
	}
	return date, nil
}
