package cmd

import (
	"fmt"

	"github.com/closepro/closepro/pkg/config"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long: `Writes a default config to $HOME/.closepro/config.json (or --config).

Edit it to set anthropic_api_key, or export ANTHROPIC_API_KEY instead.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) (err error) {
	var path string
	path, err = config.InitConfig(getConfigFile())
	if err != nil {
		return err
	}

	fmt.Printf("✓ Created %s\n", path)
	fmt.Println("Set anthropic_api_key (or ANTHROPIC_API_KEY) before grading or roleplaying.")
	return err
}
