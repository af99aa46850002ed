package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/passvault/internal/client/models"
	"github.com/spf13/cobra"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func newVaultsCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vaults",
		Short: "Vault operations",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List your vaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.requireLogin(cmd.Context()); err != nil {
				return err
			}
			vaults, err := a.api.Vaults(cmd.Context())
			if err != nil {
				return explain(err)
			}
			if len(vaults) == 0 {
				fmt.Fprintln(a.out, "No vaults yet.")
				return nil
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
			for _, v := range vaults {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", v.ID, v.Name, v.Description)
			}
			return tw.Flush()
		},
	}

	var description, icon string
	createCmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a vault",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.requireLogin(cmd.Context()); err != nil {
				return err
			}
			v, err := a.api.CreateVault(cmd.Context(), models.Vault{Name: args[0], Description: description, IconType: icon})
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(a.out, "Created vault %q (id %d).\n", v.Name, v.ID)
			return nil
		},
	}
	createCmd.Flags().StringVarP(&description, "description", "d", "", "description")
	createCmd.Flags().StringVar(&icon, "icon", "", "icon type")

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a vault together with its accounts and cards",
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
			v, err := a.api.DeleteVault(cmd.Context(), id)
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(a.out, "Deleted vault %q.\n", v.Name)
			return nil
		},
	}

	cmd.AddCommand(listCmd, createCmd, deleteCmd)
	return cmd
}
