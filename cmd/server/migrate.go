package main

import (
	"grapebd/g2g/internal/database"
	"grapebd/g2g/internal/logging"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.NewDB(&cfg.Database)
		if err != nil {
			return errors.Wrap(err, "database")
		}
		if err := database.AutoMigrate(db); err != nil {
			return errors.Wrap(err, "migrate")
		}
		logging.For("migrate").Info("schema up to date")
		return nil
	},
}

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create or promote the ADMIN_EMAIL account",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.NewDB(&cfg.Database)
		if err != nil {
			return errors.Wrap(err, "database")
		}
		return database.SeedAdmin(db, &cfg.Admin)
	},
}
