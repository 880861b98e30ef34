package cmd

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"log/slog"

	"github.com/amhafiz/timetabler/data"
	"github.com/amhafiz/timetabler/data/db"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

var resetUsernameFlag string

// resetPassword represents the resetpassword command
var resetPassword = &cobra.Command{
	Use:   "resetpassword",
	Short: "set a new password for an existing user",
	Long:  `prompts for the new password twice and replaces the stored hash`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		dbPool, err := data.NewPool(ctx)
		if err != nil {
			fmt.Printf("Could not connect to the database %v", err)
			os.Exit(1)
		}
		q := db.New(dbPool)

		username := resetUsernameFlag
		if username == "" {
			fmt.Print("Enter username: ")
			if _, err := fmt.Scanln(&username); err != nil {
				slog.Error("Failed to read username", "error", err)
				os.Exit(1)
			}
		}

		// make the not-found case obvious before asking for passwords
		if _, err := q.GetUserByUsername(ctx, username); err != nil {
			fmt.Printf("No user named %q\n", username)
			os.Exit(1)
		}

		var password string
		for {
			fmt.Print("Enter new password: ")
			bytePassword, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Println()
			if err != nil {
				slog.Error("Failed to read password", "error", err)
				os.Exit(1)
			}
			password = string(bytePassword)
			if password == "" {
				fmt.Println("Password cannot be empty. Please try again.")
				continue
			}

			fmt.Print("Confirm new password: ")
			byteConfirmPassword, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Println()
			if err != nil {
				slog.Error("Failed to read password confirmation", "error", err)
				os.Exit(1)
			}
			if password != string(byteConfirmPassword) {
				fmt.Println("Passwords do not match. Please try again.")
				password = ""
			} else {
				break
			}
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			fmt.Printf("Could not encrypt password %v", err)
			os.Exit(1)
		}

		if err := q.UpdateUserPassword(ctx, username, string(hash)); err != nil {
			fmt.Printf("Could not update password %v", err)
			os.Exit(1)
		}
		fmt.Printf("Password updated for %s", username)
	},
}

func init() {
	appCmd.AddCommand(resetPassword)
	resetPassword.Flags().StringVarP(&resetUsernameFlag, "username", "u", "", "Username of the account to reset")
}
