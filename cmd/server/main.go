package main

import (
	"fmt"
	"os"

	"grapebd/g2g/config"
	"grapebd/g2g/internal/logging"

	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "g2g",
	Short: "GrapeBD grower-to-grower gift exchange backend",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		logging.Init(cfg.Server.Env, cfg.Server.LogLevel)
	},
	// Running without a subcommand serves the API.
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedAdminCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
