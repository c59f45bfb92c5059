package commands

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/christianvuerings/nakamura/config"
	"github.com/christianvuerings/nakamura/db"
	"github.com/christianvuerings/nakamura/errors"
	"github.com/christianvuerings/nakamura/logger"
)

// DBCmd groups database maintenance commands
var DBCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the nakamura database",
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(database *sql.DB) error {
			return db.Migrate(database, logger.Logger)
		})
	},
}

var dbSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo users, groups and contacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(database *sql.DB) error {
			if err := db.Migrate(database, logger.Logger); err != nil {
				return err
			}
			return db.Seed(database, logger.Logger)
		})
	},
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show row counts for the main tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(database *sql.DB) error {
			for _, table := range []string{"authorizables", "contacts", "group_members"} {
				var count int
				if err := database.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
					return errors.Wrapf(err, "count %s", table)
				}
				fmt.Printf("%-15s %d\n", table, count)
			}
			return nil
		})
	},
}

func init() {
	DBCmd.AddCommand(dbMigrateCmd)
	DBCmd.AddCommand(dbSeedCmd)
	DBCmd.AddCommand(dbStatsCmd)
}

func withDatabase(fn func(*sql.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}

	database, err := db.Open(cfg.Database.Path, logger.Logger)
	if err != nil {
		return errors.Wrap(err, "open database")
	}
	defer database.Close()

	return fn(database)
}
