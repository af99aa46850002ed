package cli

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/passvault/internal/filex"
	"github.com/dmitrijs2005/passvault/internal/netx"
	"github.com/spf13/cobra"
)

// maxAvatarBytes caps profile picture uploads.
const maxAvatarBytes = 5 << 20

func newAvatarCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "avatar",
		Short: "Profile picture operations",
	}

	uploadCmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a profile picture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.requireLogin(cmd.Context()); err != nil {
				return err
			}

			data, err := filex.ReadLimited(args[0], maxAvatarBytes)
			if err != nil {
				return err
			}

			me, err := a.api.Me(cmd.Context())
			if err != nil {
				return explain(err)
			}
			target, err := a.api.AvatarUploadURL(cmd.Context(), me.ID)
			if err != nil {
				return explain(err)
			}
			if err := netx.UploadToPresignedURL(cmd.Context(), target.UploadURL, http.DetectContentType(data), data); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Profile picture uploaded: %s\n", target.ProfileURL)
			return nil
		},
	}

	cmd.AddCommand(uploadCmd)
	return cmd
}
