// cmd/benchkite/pipeline.go
package benchkite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/benchkite/benchkite/internal/config"
	"github.com/benchkite/benchkite/internal/fetch"
	"github.com/benchkite/benchkite/internal/metadata"
	"github.com/benchkite/benchkite/internal/pipeline"
	"github.com/benchkite/benchkite/internal/storage"
)

// Swappable in tests.
var (
	uploadPipeline = pipeline.Upload
	listPlatforms  = pipeline.Platforms
)

// pipelineCmd assembles and uploads the benchmark day's agent pipeline.
var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Emit and upload the benchmark CI pipeline steps",
	Long: `The 'pipeline' command enumerates the platforms each configured
project builds on, writes the METADATA descriptor for the day to the
storage bucket, and uploads an agent pipeline with one bench step per
platform, a wait barrier and a report-generation step.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := resolveDate(viper.GetString("pipeline.date"))
		if err != nil {
			return err
		}
		bucket := viper.GetString("pipeline.bucket")
		if bucket == "" {
			return fmt.Errorf("--bucket is required")
		}
		binaries := splitList(viper.GetString("pipeline.bench_binaries"))
		if len(binaries) == 0 {
			return fmt.Errorf("--bench_binaries is required")
		}
		binPaths := make([]string, 0, len(binaries))
		for _, binary := range binaries {
			binPaths = append(binPaths, "~/"+binary)
		}
		binGsURI := viper.GetString("pipeline.bin_gs_uri")
		if binGsURI == "" {
			binGsURI = storage.Dest(bucket, "binaries", "*")
		}

		cfg := config.Default()
		fetcher := fetch.NewClient(fetch.DefaultTimeout)
		store := &storage.Client{}
		ctx := cmd.Context()

		var doc pipeline.Pipeline
		for _, project := range cfg.Projects {
			if !project.Active {
				continue
			}
			platforms, err := listPlatforms(ctx, fetcher, project.CIConfigURL, cfg.PlatformWhitelist)
			if err != nil {
				return fmt.Errorf("project %s: %w", project.Name, err)
			}
			for _, platform := range platforms {
				doc.Steps = append(doc.Steps, pipeline.BenchStep(pipeline.BenchSpec{
					Project:      project,
					Platform:     platform,
					BinPaths:     binPaths,
					BinGsURI:     binGsURI,
					BenchRepo:    project.GitRepository,
					ExtraOptions: viper.GetString("pipeline.bench_options"),
					Date:         date,
					Bucket:       bucket,
					DataDir:      cfg.DataDir,
				}))
			}

			if err := writeAndUploadMetadata(ctx, store, project, date, platforms, bucket, binaries); err != nil {
				return fmt.Errorf("project %s: %w", project.Name, err)
			}

			doc.Steps = append(doc.Steps, pipeline.Wait)
			doc.Steps = append(doc.Steps, pipeline.ReportStep(
				date,
				project.StorageSubdir,
				bucket,
				cfg.ReportPlatform,
				viper.GetString("pipeline.report_name"),
				viper.GetBool("pipeline.update_latest"),
			))
		}

		if viper.GetBool("pipeline.debug") {
			pp.Println(doc)
		}
		if err := pipeline.Emit(os.Stderr, doc); err != nil {
			return err
		}
		return uploadPipeline(ctx, doc)
	},
}

// writeAndUploadMetadata writes the METADATA descriptor to a temp file
// and copies it to the project's dated bucket path.
func writeAndUploadMetadata(ctx context.Context, store *storage.Client, project config.Project, date time.Time, platforms []string, bucket string, binaries []string) error {
	doc := metadata.Build(
		project.StorageSubdir,
		project.GitRepository,
		project.BenchCommand,
		date,
		platforms,
		bucket,
		binaries,
	)
	path := filepath.Join(os.TempDir(), project.StorageSubdir+"-metadata")
	if err := doc.WriteFile(path); err != nil {
		return err
	}
	dest := storage.Dest(bucket, metadata.DatedSubdir(project.StorageSubdir, date), metadata.ObjectName)
	if err := store.Copy(ctx, path, dest); err != nil {
		return err
	}
	fmt.Printf("%s\n", faintStyle.Render(fmt.Sprintf("Uploaded %s's METADATA to %s.", project.StorageSubdir, dest)))
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(pipelineCmd)

	pipelineCmd.Flags().String("date", "", "Date in YYYY-MM-DD format (default: today)")
	pipelineCmd.Flags().String("bucket", "", "Storage bucket receiving results and the METADATA descriptor")
	pipelineCmd.Flags().String("bench_binaries", "", "Comma-separated benchmark binaries to compare")
	pipelineCmd.Flags().String("bench_options", "", "Extra options passed to the benchmark tool")
	pipelineCmd.Flags().String("bin_gs_uri", "", "gs:// URI the agents download benchmark binaries from")
	pipelineCmd.Flags().String("report_name", "report", "Object name for the generated report")
	pipelineCmd.Flags().Bool("update_latest", false, "Also copy the report to the project's latest-report path")
	pipelineCmd.Flags().Bool("debug", false, "Dump the assembled pipeline before uploading")

	viper.BindPFlag("pipeline.date", pipelineCmd.Flags().Lookup("date"))
	viper.BindPFlag("pipeline.bucket", pipelineCmd.Flags().Lookup("bucket"))
	viper.BindPFlag("pipeline.bench_binaries", pipelineCmd.Flags().Lookup("bench_binaries"))
	viper.BindPFlag("pipeline.bench_options", pipelineCmd.Flags().Lookup("bench_options"))
	viper.BindPFlag("pipeline.bin_gs_uri", pipelineCmd.Flags().Lookup("bin_gs_uri"))
	viper.BindPFlag("pipeline.report_name", pipelineCmd.Flags().Lookup("report_name"))
	viper.BindPFlag("pipeline.update_latest", pipelineCmd.Flags().Lookup("update_latest"))
	viper.BindPFlag("pipeline.debug", pipelineCmd.Flags().Lookup("debug"))
}
