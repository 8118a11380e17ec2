// cmd/benchkite/report.go
package benchkite

import (
	"context"
	"fmt"
	"time"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/benchkite/benchkite/internal/config"
	"github.com/benchkite/benchkite/internal/fetch"
	"github.com/benchkite/benchkite/internal/report"
	"github.com/benchkite/benchkite/internal/storage"
)

// generateReport is swappable in tests.
var generateReport = func(ctx context.Context, g *report.Generator, project string, date time.Time, bucket string) (string, error) {
	return g.Generate(ctx, project, date, bucket)
}

var reportProjects []string

// reportCmd renders the daily HTML report for each requested project.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate the daily HTML report for one or more projects",
	Long: `The 'report' command fetches a day's METADATA descriptor and the
per-platform measurement CSVs from the storage bucket, reshapes them
into chart tables and writes one HTML report per project. With a
storage bucket configured, the report is also copied back to the
bucket's dated path.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := resolveDate(viper.GetString("report.date"))
		if err != nil {
			return err
		}
		if len(reportProjects) == 0 {
			return fmt.Errorf("at least one --project is required")
		}

		cfg := config.Default()
		outputDir := viper.GetString("report.output_dir")
		if outputDir == "" {
			outputDir = cfg.ReportsDir
		}
		bucket := viper.GetString("report.storage_bucket")

		gen := report.NewGenerator(fetch.NewClient(fetch.DefaultTimeout), outputDir)
		gen.ReportName = viper.GetString("report.report_name")
		if bucket != "" {
			gen.Store = &storage.Client{}
		}
		if viper.GetBool("report.debug") {
			pp.Println(gen)
		}

		failed := 0
		for _, project := range reportProjects {
			path, err := generateReport(cmd.Context(), gen, project, date, bucket)
			if err != nil {
				fmt.Printf("%s\n", errorStyle.Render(fmt.Sprintf("%s: %v", project, err)))
				failed++
				continue
			}
			fmt.Printf("%s %s\n", successStyle.Render("Wrote"), path)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d project reports failed", failed, len(reportProjects))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().String("date", "", "Date in YYYY-MM-DD format (default: today)")
	reportCmd.Flags().StringArrayVar(&reportProjects, "project", nil, "Project to generate a report for (repeatable)")
	reportCmd.Flags().String("storage_bucket", "", "Storage bucket holding the data, also receives the report")
	reportCmd.Flags().String("report_name", "report", "Object name for the uploaded report")
	reportCmd.Flags().String("output_dir", "", "Local directory for report files")
	reportCmd.Flags().Bool("debug", false, "Dump the resolved generator configuration")

	viper.BindPFlag("report.date", reportCmd.Flags().Lookup("date"))
	viper.BindPFlag("report.storage_bucket", reportCmd.Flags().Lookup("storage_bucket"))
	viper.BindPFlag("report.report_name", reportCmd.Flags().Lookup("report_name"))
	viper.BindPFlag("report.output_dir", reportCmd.Flags().Lookup("output_dir"))
	viper.BindPFlag("report.debug", reportCmd.Flags().Lookup("debug"))
}
