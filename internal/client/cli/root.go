package cli

import (
	"github.com/dmitrijs2005/passvault/internal/client/config"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the passvault command tree.
func NewRootCommand() *cobra.Command {
	var (
		configPath string
		serverURL  string
		dataDir    string
		app        *App
	)

	root := &cobra.Command{
		Use:           "passvault",
		Short:         "Command-line client for the passvault password manager",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("server") {
				cfg.ServerURL = serverURL
			}
			if cmd.Flags().Changed("data-dir") {
				cfg.DataDir = dataDir
			}

			app, err = newApp(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app == nil {
				return nil
			}
			return app.Close()
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a JSON config file")
	root.PersistentFlags().StringVarP(&serverURL, "server", "a", "", "server base URL")
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory for the local session store")

	current := func() *App { return app }

	root.AddCommand(
		newSignupCommand(current),
		newLoginCommand(current),
		newLogoutCommand(current),
		newWhoamiCommand(current),
		newVaultsCommand(current),
		newAccountsCommand(current),
		newAvatarCommand(current),
	)

	return root
}
