package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/validate"
)

var adminInput services.RegisterInput

// user:admin creates an ADMIN account, or promotes the existing account with
// that email.
var userAdminCmd = &cobra.Command{
	Use:   "user:admin",
	Short: "Create or promote an admin user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if errs := validate.Struct(&adminInput); validate.HasErrors(errs) {
			for field, msg := range errs {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", field, msg)
			}
			return fmt.Errorf("invalid admin details")
		}

		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		u, created, err := services.NewAuthService(database.DB).EnsureAdmin(context.Background(), adminInput)
		if err != nil {
			return err
		}
		verb := "Promoted"
		if created {
			verb = "Created"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s admin %s (id %d)\n", verb, u.Email, u.ID)
		return nil
	},
}

func init() {
	f := userAdminCmd.Flags()
	f.StringVar(&adminInput.Name, "name", "Administrator", "display name")
	f.StringVar(&adminInput.Email, "email", "", "login email")
	f.StringVar(&adminInput.Password, "password", "", "login password (min 6 characters)")
	_ = userAdminCmd.MarkFlagRequired("email")
	_ = userAdminCmd.MarkFlagRequired("password")
}
