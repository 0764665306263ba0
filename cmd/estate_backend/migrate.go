package main

import (
	"github.com/SscSPs/estate_management_app/pkg/database"
	"github.com/spf13/cobra"
)

var migrationsPath string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		return database.RunMigrations(cfg.DatabaseURL, migrationsPath, logger)
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrationsPath, "path", database.DefaultMigrationsPath, "migration source URL")
}
