package cmd

import (
	"os"

	"github.com/nikogura/onepage-tailor/pkg/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var verbose bool

//nolint:gochecknoglobals // Cobra boilerplate
var configFile string

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "onepage-tailor",
	Short: "Tailor a master resume to a job and fit it on one page",
	Long: `onepage-tailor rewrites the summary, skills and experience bullets of your master
resume for a specific job description, then trims the result until it renders on a
single page.

Uses Claude or Gemini to reword content. Nothing is invented: titles, employers and
dates always come from the master resume.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.onepage-tailor/config.json)")
}

// getVerbose returns the verbose flag value.
func getVerbose() (result bool) {
	result = verbose
	return result
}

// getConfigFile returns the config file path.
func getConfigFile() (result string) {
	result = configFile
	return result
}

// newLogger returns the logger for library packages.
func newLogger() (logger *logrus.Logger) {
	logger = logging.New(getVerbose())
	return logger
}
