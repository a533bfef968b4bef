package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <username> <password>",
	Short: "Log in to the admin console",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := manager.Login(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		if !res.Success {
			return fmt.Errorf("login rejected: %s", res.Message)
		}
		fmt.Printf("Logged in as %s\n", args[0])
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <username> <email> <password>",
	Short: "Register the first administrator account",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := manager.Register(cmd.Context(), args[0], args[1], args[2])
		if err != nil {
			return err
		}
		if !res.Success {
			return fmt.Errorf("registration rejected: %s", res.Message)
		}
		fmt.Printf("Registered and logged in as %s\n", args[0])
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and discard the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager.Logout()
		fmt.Println("Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		principal, ok := manager.Principal()
		if !ok {
			fmt.Println("Not logged in")
			return nil
		}
		fmt.Printf("%s (%s)\n", principal.Username, principal.Role)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
}
