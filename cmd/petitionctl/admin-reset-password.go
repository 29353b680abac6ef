package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/petition-in-go/pkg/credential"
	"github.com/doodlesbykumbi/petition-in-go/pkg/db"
	"github.com/doodlesbykumbi/petition-in-go/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/petition-in-go/pkg/server/store/gorm"
)

// adminResetPasswordCmd represents the admin reset-password command
var adminResetPasswordCmd = &cobra.Command{
	Use:   "reset-password <username>",
	Short: "Set a new password for an administrator",
	Long: `Set a new password for an administrator.

The password is taken from --password or read from the first line of stdin.
Sessions already open keep working until they expire.

Example:
  petitionctl admin reset-password admin < password.txt`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		username := args[0]

		password, err := readPassword(cmd, cmd.InOrStdin())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		database, err := db.Connect(db.Config{URL: databaseURL()})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to connect to DB: %v\n", err)
			os.Exit(1)
		}

		if err := resetPassword(cmd.Context(), gormstore.NewPrincipalsStore(database), username, password); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to reset password for %s: %v\n", username, err)
			os.Exit(1)
		}
		fmt.Printf("Password for %s updated\n", username)
	},
}

func init() {
	adminCmd.AddCommand(adminResetPasswordCmd)
	adminResetPasswordCmd.Flags().String("password", "", "new password")
}

func resetPassword(ctx context.Context, principals store.PrincipalsStore, username, password string) error {
	hash, err := credential.HashPassword(password)
	if err != nil {
		return err
	}

	err = principals.UpdatePassword(ctx, username, hash)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no such user: %s", username)
	}
	return err
}
