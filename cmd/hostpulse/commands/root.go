package commands

import (
	"github.com/spf13/cobra"

	"hostpulse/internal/config"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hostpulse",
		Short: "hostpulse - host resource monitor with threshold alerts",
		Long: `hostpulse samples CPU, memory and disk usage at a fixed interval, writes
every sample to a rotating log file, and sends alerts and periodic status
messages to a single notification sink when thresholds are crossed.

Running without a subcommand is the same as "hostpulse run".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runMonitor,
	}

	cmd.PersistentFlags().String("env-file", ".env", "Optional dotenv file loaded before the environment")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig resolves configuration from the --env-file flag and the environment
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	return config.Load(envFile)
}
