// Command storefront is the storefront server and its operator CLI:
//
//	storefront serve
//	storefront migrate | migrate:rollback | migrate:status
//	storefront seed
//	storefront route:list
//	storefront import:products sheet.rtf --mode bulk
//	storefront user:admin --email admin@example.com --password ...
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/shashiranjanraj/storefront/database/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "storefront",
	Short:         "Storefront API server and admin CLI",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	rootCmd.AddCommand(importProductsCmd)
	rootCmd.AddCommand(userAdminCmd)
}
