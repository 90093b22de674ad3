package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/database"
)

var importMode string

// import:products reads an RTF (or plain text) product sheet from a file, or
// stdin when the path is "-".
var importProductsCmd = &cobra.Command{
	Use:   "import:products <file|->",
	Short: "Import products from an RTF product sheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			raw []byte
			err error
		)
		if args[0] == "-" {
			raw, err = io.ReadAll(cmd.InOrStdin())
		} else {
			raw, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("read sheet: %w", err)
		}

		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		catalog := services.NewCatalogService(database.DB)
		report, err := services.NewImportService(catalog).Import(context.Background(), string(raw), importMode)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, p := range report.Products {
			fmt.Fprintf(out, "  + %s (id %d)\n", p.Name, p.ID)
		}
		fmt.Fprintf(out, "Imported %d product(s), skipped %d.\n", report.Created, report.Skipped)
		return nil
	},
}

func init() {
	importProductsCmd.Flags().StringVar(&importMode, "mode", services.ImportBulk,
		"sheet layout: bulk (blank-line separated products) or sections (one product)")
}
