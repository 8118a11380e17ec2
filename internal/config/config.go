// Package config carries the explicit configuration passed into each
// component: the projects table, platform whitelist, phase vocabulary
// and local directories. Nothing here is process-global; commands build
// a Config once and hand it down.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Project is one benchmarked project.
type Project struct {
	Name          string
	StorageSubdir string
	GitRepository string
	BenchCommand  string
	// CIConfigURL points at the project's CI task configuration, from
	// which the benchmark platforms are enumerated.
	CIConfigURL string
	Active      bool
}

// Config is the full pipeline configuration.
type Config struct {
	Projects          []Project
	PlatformWhitelist []string
	// ReportPlatform runs the report-generation step.
	ReportPlatform string
	// StarterPlatform runs the pipeline starter job.
	StarterPlatform string
	ReportsDir      string
	DataDir         string
	BinDir          string
}

// Default mirrors the production pipeline setup.
func Default() Config {
	tmp := os.TempDir()
	home, _ := os.UserHomeDir()
	return Config{
		Projects: []Project{
			{
				Name:          "Bazel",
				StorageSubdir: "bazel",
				GitRepository: "https://github.com/bazelbuild/bazel.git",
				BenchCommand:  "build //src:bazel",
				CIConfigURL:   "https://raw.githubusercontent.com/bazelbuild/continuous-integration/master/buildkite/pipelines/bazel-postsubmit.yml",
				Active:        true,
			},
		},
		PlatformWhitelist: []string{"macos", "ubuntu1604", "ubuntu1804", "rbe_ubuntu1604"},
		ReportPlatform:    "ubuntu1804",
		StarterPlatform:   "ubuntu1804",
		ReportsDir:        filepath.Join(tmp, ".benchkite", "reports"),
		DataDir:           filepath.Join(tmp, ".benchkite", "out"),
		BinDir:            filepath.Join(home, ".benchkite", "bench-bin"),
	}
}

// LoadEnv reads an optional .env file and wires environment variables
// into viper so flags can fall back to the environment. A missing .env
// is not an error on CI agents.
func LoadEnv() {
	_ = godotenv.Load()
	viper.AutomaticEnv()
}
