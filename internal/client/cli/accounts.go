package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/passvault/internal/client/models"
	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/spf13/cobra"
)

func newAccountsCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Stored site login operations",
	}

	var listVault int64
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts, optionally within one vault",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.requireLogin(cmd.Context()); err != nil {
				return err
			}
			accounts, err := a.api.Accounts(cmd.Context(), listVault)
			if err != nil {
				return explain(err)
			}
			if len(accounts) == 0 {
				fmt.Fprintln(a.out, "No accounts yet.")
				return nil
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tUSERNAME\tEMAIL\tVAULT")
			for _, acc := range accounts {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n", acc.ID, acc.Name, acc.UserName, acc.Email, acc.VaultID)
			}
			return tw.Flush()
		},
	}
	listCmd.Flags().Int64Var(&listVault, "vault", 0, "only list accounts in this vault")

	getCmd := &cobra.Command{
		Use:   "get ID",
		Short: "Show one account including its password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.requireLogin(cmd.Context()); err != nil {
				return err
			}
			acc, err := a.api.Account(cmd.Context(), id)
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(a.out, "Name:        %s\n", acc.Name)
			fmt.Fprintf(a.out, "Username:    %s\n", acc.UserName)
			fmt.Fprintf(a.out, "Email:       %s\n", acc.Email)
			fmt.Fprintf(a.out, "Password:    %s\n", acc.Password)
			fmt.Fprintf(a.out, "URL:         %s\n", acc.PageURL)
			fmt.Fprintf(a.out, "Description: %s\n", acc.Description)
			return nil
		},
	}

	var in models.Account
	createCmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Store a site login; the password is prompted for",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if in.VaultID < 1 {
				return fmt.Errorf("--vault is required")
			}
			if err := a.requireLogin(cmd.Context()); err != nil {
				return err
			}
			password, err := getPassword(a.in, a.out, "Account password")
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			in.Name = args[0]
			in.Password = string(password)
			acc, err := a.api.CreateAccount(cmd.Context(), in)
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(a.out, "Stored account %q (id %d).\n", acc.Name, acc.ID)
			return nil
		},
	}
	createCmd.Flags().Int64Var(&in.VaultID, "vault", 0, "vault id (required)")
	createCmd.Flags().StringVarP(&in.UserName, "username", "u", "", "login name on the site")
	createCmd.Flags().StringVarP(&in.Email, "email", "e", "", "email used on the site")
	createCmd.Flags().StringVar(&in.PageURL, "url", "", "site URL")
	createCmd.Flags().StringVarP(&in.Description, "description", "d", "", "description")

	cmd.AddCommand(listCmd, getCmd, createCmd)
	return cmd
}
