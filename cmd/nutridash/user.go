package main

import (
	"fmt"

	"github.com/aussiebroadwan/nutridash/internal/nutridash/app"
	"github.com/aussiebroadwan/nutridash/internal/nutridash/service"
	"github.com/aussiebroadwan/nutridash/pkg/cryptox"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create <email> [password]",
	Short: "Create an account",
	Long:  "Create an account. A random password is generated and printed when none is given.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		admin, _ := cmd.Flags().GetBool("admin")

		password, generated := "", false
		if len(args) == 2 {
			password = args[1]
		} else {
			var err error
			if password, err = cryptox.GeneratePassword(); err != nil {
				return err
			}
			generated = true
		}

		return withUsers(func(users *service.UserService) error {
			u, err := users.CreateUser(cmd.Context(), args[0], password, admin)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) roles=%v\n", u.Email, u.ID, u.Roles)
			if generated {
				fmt.Fprintf(cmd.OutOrStdout(), "password: %s\n", password)
			}
			return nil
		})
	},
}

var userToggleCmd = &cobra.Command{
	Use:   "toggle-active <email>",
	Short: "Enable or disable an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUsers(func(users *service.UserService) error {
			u, err := users.GetUserByEmail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			u, err = users.ToggleActive(cmd.Context(), "", u.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s active=%t\n", u.Email, u.IsActive)
			return nil
		})
	},
}

func withUsers(fn func(*service.UserService) error) error {
	db, err := app.OpenStore(app.LoadConfig())
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return fn(&service.UserService{Store: db, Passwords: service.Argon2Passwords{}})
}

func init() {
	userCreateCmd.Flags().Bool("admin", false, "grant the admin role")
	userCmd.AddCommand(userCreateCmd, userToggleCmd)
}
