package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/christianvuerings/nakamura/config"
	"github.com/christianvuerings/nakamura/db"
	"github.com/christianvuerings/nakamura/errors"
	"github.com/christianvuerings/nakamura/logger"
	"github.com/christianvuerings/nakamura/server"
)

// ServerCmd starts the nakamura feed server
var ServerCmd = &cobra.Command{
	Use:     "server",
	Aliases: []string{"serve"},
	Short:   "Start the nakamura server for the related-people feed",
	Long:    `Launch the nakamura HTTP server exposing the related-people feed and health endpoints.`,
	RunE:    runServer,
}

var (
	serverDBPath string
	serverPort   int
)

func init() {
	ServerCmd.Flags().StringVar(&serverDBPath, "db-path", "", "Custom database path (overrides config)")
	ServerCmd.Flags().IntVar(&serverPort, "port", 0, "Server port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}
	if serverDBPath != "" {
		cfg.Database.Path = serverDBPath
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}

	database, err := db.Open(cfg.Database.Path, logger.Logger)
	if err != nil {
		return errors.Wrap(err, "open database")
	}
	defer database.Close()

	if err := db.Migrate(database, logger.Logger); err != nil {
		return errors.Wrap(err, "migrate database")
	}

	printBanner(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, database, logger.Logger)
	return srv.Start(ctx)
}

func printBanner(cfg *config.Config) {
	pterm.DefaultBox.WithTitle("nakamura").Println(
		fmt.Sprintf("port: %d\ndatabase: %s\nfeed page size: %d\nfeed minimum: %d",
			cfg.Server.Port, cfg.Database.Path, cfg.Feed.ItemsPerPage, cfg.Feed.MinimumResults),
	)
}
