package cli

import (
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/client/models"
	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/spf13/cobra"
)

func newSignupCommand(app func() *App) *cobra.Command {
	var username, email string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a new account on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			var err error
			if username, err = a.prompt(username, "Username"); err != nil {
				return err
			}
			if email, err = a.prompt(email, "Email"); err != nil {
				return err
			}
			password, err := getPassword(a.in, a.out, "Password")
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)
			confirm, err := getPassword(a.in, a.out, "Repeat password")
			if err != nil {
				return err
			}
			defer common.WipeByteArray(confirm)
			if string(password) != string(confirm) {
				return fmt.Errorf("passwords do not match")
			}

			u, err := a.api.Signup(cmd.Context(), models.Signup{UserName: username, Email: email, Password: string(password)})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Registered %s (id %d). Run `passvault login` to sign in.\n", u.UserName, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "email address")
	return cmd
}

func newLoginCommand(app func() *App) *cobra.Command {
	var otp string

	cmd := &cobra.Command{
		Use:   "login [email-or-username]",
		Short: "Sign in and remember the access token",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			login := ""
			if len(args) == 1 {
				login = args[0]
			}
			login, err := a.prompt(login, "Email or username")
			if err != nil {
				return err
			}
			password, err := getPassword(a.in, a.out, "Password")
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			token, err := a.api.Login(cmd.Context(), login, string(password), otp)
			if err != nil {
				return err
			}
			if err := a.session.Save(cmd.Context(), login, token); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Logged in as %s.\n", login)
			return nil
		},
	}
	cmd.Flags().StringVar(&otp, "otp", "", "one-time code when two-factor authentication is enabled")
	return cmd
}

func newLogoutCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.session.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out.")
			return nil
		},
	}
}

func newWhoamiCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.requireLogin(cmd.Context()); err != nil {
				return err
			}
			u, err := a.api.Me(cmd.Context())
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(a.out, "%s <%s> (id %d, 2FA %v)\n", u.UserName, u.Email, u.ID, u.TOTPEnabled)
			return nil
		},
	}
}
