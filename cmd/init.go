package cmd

import (
	"fmt"

	"github.com/nikogura/onepage-tailor/pkg/config"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long: `Create a default config file at $HOME/.onepage-tailor/config.json (or --config).

Edit it to set your name, API key and master resume path. API keys may also come
from ANTHROPIC_API_KEY or GEMINI_API_KEY, in the environment or a .env file.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) (err error) {
	path := getConfigFile()
	if path == "" {
		path, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}

	err = config.InitConfig(path)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Config written to %s\n", path)
	return err
}
