package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/christianvuerings/nakamura/cmd/nakamura/commands"
	"github.com/christianvuerings/nakamura/logger"
)

var rootCmd = &cobra.Command{
	Use:   "nakamura",
	Short: "nakamura - related people feed service",
	Long: `nakamura assembles "related people" candidate feeds for users.

The feed combines ranked search results with group-membership fallback
candidates, deduplicated against the requester's existing contacts.

Available commands:
  server  - Start the HTTP feed server
  db      - Manage database migrations and seed data
  version - Print version and build information

Examples:
  nakamura server              # Start the feed server
  nakamura db migrate          # Apply pending migrations
  nakamura db seed             # Load demo users and groups
  nakamura db stats            # Show table row counts`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Initialize(false); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(commands.ServerCmd)
	rootCmd.AddCommand(commands.DBCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
