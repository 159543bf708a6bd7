package command

import (
	"github.com/spf13/cobra"

	"movierater/cmd/cli/command/client"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <tab-id>",
		Short: "Follow title changes of a browser tab",
		Long: `Streams the detected title of a tab over WebSocket. The tab's page is
reported by the browser extension through POST /api/tabs/<tab-id>/snapshot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			muted.Fprintf(cmd.OutOrStdout(), "Watching tab %s (Ctrl+C to stop)\n", args[0])
			return client.WatchTab(cmd.Context(), opts.apiURL, args[0], cmd.OutOrStdout())
		},
	}
}
