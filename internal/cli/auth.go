package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/api"
)

// passwordEnv is read when --password is not given.
const passwordEnv = "YUSHAN_PASSWORD"

func resolvePassword(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv(passwordEnv); env != "" {
		return env, nil
	}
	return "", fmt.Errorf("password required (--password or %s)", passwordEnv)
}

func newLoginCommand() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}
			pw, err := resolvePassword(password)
			if err != nil {
				return err
			}
			user, err := a.svc.Auth.Login(cmd.Context(), api.LoginRequest{Email: strings.TrimSpace(email), Password: pw})
			if err != nil {
				return err
			}
			a.printf("Signed in as %s\n", user.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (or $"+passwordEnv+")")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newRegisterCommand() *cobra.Command {
	var req api.RegisterRequest
	var password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if req.Password, err = resolvePassword(password); err != nil {
				return err
			}
			user, err := a.svc.Auth.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			a.printf("Welcome, %s\n", user.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "display name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (or $"+passwordEnv+")")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the saved credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if !a.svc.Auth.Authenticated() {
				a.printf("Not signed in\n")
				return nil
			}
			if err := a.svc.Auth.Logout(cmd.Context()); err != nil {
				a.printf("Signed out locally (%s)\n", err)
				return nil
			}
			a.printf("Signed out\n")
			return nil
		},
	}
}

func newWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if !a.svc.Auth.Authenticated() {
				return fmt.Errorf("not signed in; run `yushan login`")
			}
			user, err := a.svc.Users.Me(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(user, userTable(user))
		},
	}
}
