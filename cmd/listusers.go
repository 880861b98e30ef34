package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/amhafiz/timetabler/data"
	"github.com/amhafiz/timetabler/data/db"
	"github.com/spf13/cobra"
)

var listRoleFlag string

// listUsers represents the listusers command
var listUsers = &cobra.Command{
	Use:   "listusers",
	Short: "list all users with their roles",
	Long:  `prints a table of users, optionally filtered by role, with a per role summary`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		dbPool, err := data.NewPool(ctx)
		if err != nil {
			fmt.Printf("Could not connect to the database %v", err)
			os.Exit(1)
		}
		q := db.New(dbPool)

		var users []db.User
		if listRoleFlag != "" {
			fmt.Printf("\nFiltering by role: %s\n\n", listRoleFlag)
			users, err = q.ListUsersByRole(ctx, listRoleFlag)
		} else {
			users, err = q.ListUsers(ctx)
		}
		if err != nil {
			fmt.Printf("Could not list users %v", err)
			os.Exit(1)
		}

		if len(users) == 0 {
			fmt.Println("No users found.")
			return
		}

		divider := strings.Repeat("=", 90)
		fmt.Println(divider)
		fmt.Printf("%-5s %-20s %-30s %-15s %-8s\n", "ID", "Username", "Email", "Role", "Active")
		fmt.Println(divider)
		for _, user := range users {
			email := user.Email.String
			if email == "" {
				email = "N/A"
			}
			active := "No"
			if user.IsActive {
				active = "Yes"
			}
			fmt.Printf("%-5d %-20s %-30s %-15s %-8s\n", user.ID, user.Username, email, user.Role, active)
		}
		fmt.Println(divider)
		fmt.Printf("\nTotal users: %d\n", len(users))

		if listRoleFlag == "" {
			roleCounts, err := q.CountUsersByRole(ctx)
			if err != nil {
				fmt.Printf("Could not count users by role %v", err)
				os.Exit(1)
			}
			fmt.Println("\nUser Types Summary:")
			for _, rc := range roleCounts {
				fmt.Printf("  %-15s : %d\n", rc.Role, rc.Count)
			}
		}
	},
}

func init() {
	appCmd.AddCommand(listUsers)
	listUsers.Flags().StringVarP(&listRoleFlag, "role", "r", "", "Filter users by role (student, teacher, staff, other)")
}
