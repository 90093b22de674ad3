package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/database/seeders"
	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

// bootDB loads config and opens the database connection.
func bootDB() error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect()
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()
		fmt.Fprintln(cmd.OutOrStdout(), "Running migrations...")
		return migration.New(database.DB).WithOutput(cmd.OutOrStdout()).Run()
	},
}

var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()
		fmt.Fprintln(cmd.OutOrStdout(), "Rolling back last batch...")
		return migration.New(database.DB).WithOutput(cmd.OutOrStdout()).Rollback()
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()
		return migration.New(database.DB).WithOutput(cmd.OutOrStdout()).Status()
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo catalogue",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()
		fmt.Fprintln(cmd.OutOrStdout(), "Running seeders...")
		return seeders.RunAll(database.DB, cmd.OutOrStdout())
	},
}
