// cmd/benchkite/envsetup.go
package benchkite

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/benchkite/benchkite/internal/config"
	"github.com/benchkite/benchkite/internal/storage"
)

// envSetupCmd prepares a benchmark agent: it downloads the benchmark
// binaries from the bucket into the local binary directory.
var envSetupCmd = &cobra.Command{
	Use:   "env-setup",
	Short: "Download benchmark binaries onto the agent",
	RunE: func(cmd *cobra.Command, args []string) error {
		gsURI := viper.GetString("envsetup.gs_uri")
		if gsURI == "" {
			return fmt.Errorf("--gs_uri is required")
		}
		cfg := config.Default()
		if err := os.MkdirAll(cfg.BinDir, 0o755); err != nil {
			return fmt.Errorf("could not create %s: %w", cfg.BinDir, err)
		}
		store := &storage.Client{}
		if err := store.CopyTree(cmd.Context(), gsURI, cfg.BinDir+"/"); err != nil {
			return err
		}
		fmt.Printf("%s %s\n", successStyle.Render("Downloaded binaries to"), cfg.BinDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(envSetupCmd)

	envSetupCmd.Flags().String("gs_uri", "", "gs:// URI of the benchmark binaries")
	viper.BindPFlag("envsetup.gs_uri", envSetupCmd.Flags().Lookup("gs_uri"))
}
