package main

import (
	"github.com/spf13/cobra"

	"clubsphere-backend/internal/client"
)

func newLoginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print an access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := newClient().Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			printAuth(cmd, res)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and print an access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := newClient().Register(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}
			printAuth(cmd, res)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "User name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "Email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	cmd.MarkFlagsRequiredTogether("name", "email", "password")
	return cmd
}

func printAuth(cmd *cobra.Command, res *client.AuthResult) {
	cmd.Printf("Logged in as %s (%s)\n", res.User.UserName, res.User.Role)
	cmd.Printf("export %s=%s\n", envToken, res.Token)
}
