package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/petition-in-go/pkg/credential"
	"github.com/doodlesbykumbi/petition-in-go/pkg/db"
	"github.com/doodlesbykumbi/petition-in-go/pkg/model"
	"github.com/doodlesbykumbi/petition-in-go/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/petition-in-go/pkg/server/store/gorm"
)

// adminCreateCmd represents the admin create command
var adminCreateCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Create an administrator",
	Long: `Create an administrator who can log in to /admin.

The password is taken from --password or read from the first line of stdin.

Example:
  petitionctl admin create admin < password.txt
  petitionctl admin create admin --password 'correct horse'`,
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

		if err := createAdmin(cmd.Context(), gormstore.NewPrincipalsStore(database), username, password); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create %s: %v\n", username, err)
			os.Exit(1)
		}
		fmt.Printf("Created administrator %s\n", username)
	},
}

func init() {
	adminCmd.AddCommand(adminCreateCmd)
	adminCreateCmd.Flags().String("password", "", "password for the new administrator")
}

func createAdmin(ctx context.Context, principals store.PrincipalsStore, username, password string) error {
	if username == "" {
		return errors.New("username must not be empty")
	}

	hash, err := credential.HashPassword(password)
	if err != nil {
		return err
	}

	err = principals.Create(ctx, &model.Principal{
		Username:     username,
		PasswordHash: hash,
		IsAdmin:      true,
	})
	if errors.Is(err, store.ErrDuplicate) {
		return fmt.Errorf("username %q is taken", username)
	}
	return err
}
