package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPlaylistsCmd(a *app) *cobra.Command {
	var showUUID bool

	cmd := &cobra.Command{
		Use:   "playlists",
		Short: "List djay playlists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.openService()
			if err != nil {
				return err
			}
			defer svc.Close()

			playlists, err := svc.ListPlaylists(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range playlists {
				if showUUID {
					fmt.Fprintf(out, "%s\t%s\n", p.UUID, p.Name)
				} else {
					fmt.Fprintln(out, p.Name)
				}
			}
			a.log.Debugf("Listed %d playlists", len(playlists))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showUUID, "uuid", false, "Print each playlist's UUID before its name")
	return cmd
}
