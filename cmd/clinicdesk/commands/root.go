package commands

import (
	"github.com/spf13/cobra"

	appconfig "github.com/wolfman30/clinicdesk-ai/internal/config"
	"github.com/wolfman30/clinicdesk-ai/pkg/logging"
)

var logLevel string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "clinicdesk",
	Short: "Clinic front-desk assistant tools",
	Long: `clinicdesk runs the front-desk assistant outside the HTTP server.

Configuration comes from the environment (a local .env file is loaded
first), the same keys the API server reads.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug|info|warn|error)")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(tokenCmd)
}

func loadConfig() (*appconfig.Config, *logging.Logger) {
	cfg := appconfig.Load()
	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	return cfg, logging.NewWithOptions(logging.Options{Level: level, Format: "text"})
}
