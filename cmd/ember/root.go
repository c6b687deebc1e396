package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Ember CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ember",
		Short: "Ember - forum account and session service",
		Long: `Ember runs the account service for the Ember forum: registration,
login, sessions, and password recovery over a JSON API.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewStatusCmd())

	return cmd
}
