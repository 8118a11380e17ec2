// cmd/benchkite/agents.go
package benchkite

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/benchkite/benchkite/internal/agents"
	"github.com/benchkite/benchkite/internal/config"
)

// newAgentsClient is swappable in tests.
var newAgentsClient = func(token string) *agents.Client {
	return agents.NewClient(token)
}

// restartAgentsCmd stops every CI agent whose name matches the filter,
// letting their supervisors bring them back up fresh.
var restartAgentsCmd = &cobra.Command{
	Use:   "restart-agents",
	Short: "Restart CI agents matching a name filter",
	Long: `The 'restart-agents' command lists the organization's CI agents via
the Buildkite REST API and stops each one whose name contains the
filter string. Stopped agents are restarted by their supervisor. The
API token is read from the BUILDKITE_TOKEN environment variable (an
.env file is honored).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config.LoadEnv()
		viper.BindEnv("buildkite.token", "BUILDKITE_TOKEN")
		token := viper.GetString("buildkite.token")
		if token == "" {
			return fmt.Errorf("BUILDKITE_TOKEN is not set")
		}
		org := viper.GetString("agents.org")
		if org == "" {
			return fmt.Errorf("--org is required")
		}

		client := newAgentsClient(token)
		results, err := client.StopMatching(cmd.Context(), org, viper.GetString("agents.filter"))
		if err != nil {
			return err
		}
		failed := 0
		for _, res := range results {
			line := fmt.Sprintf("Stopping agent %s (https://buildkite.com/organizations/%s/agents/%s): ", res.Agent.Name, org, res.Agent.ID)
			if res.Err != nil {
				fmt.Printf("%s%s\n", line, errorStyle.Render("Error"))
				failed++
				continue
			}
			fmt.Printf("%s%s\n", line, successStyle.Render("OK"))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d agents failed to stop", failed, len(results))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(restartAgentsCmd)

	restartAgentsCmd.Flags().String("org", "", "CI organization slug")
	restartAgentsCmd.Flags().String("filter", "docker", "Substring an agent's name must contain")

	viper.BindPFlag("agents.org", restartAgentsCmd.Flags().Lookup("org"))
	viper.BindPFlag("agents.filter", restartAgentsCmd.Flags().Lookup("filter"))
}
