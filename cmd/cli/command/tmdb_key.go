package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"movierater/cmd/cli/authentication"
)

func newTMDBKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tmdb-key",
		Short: "Store the TMDB API key used for trending movies",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key>",
		Short: "Save the key in the system keyring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := authentication.StoreTMDBKey(args[0]); err != nil {
				return fmt.Errorf("failed to store TMDB key: %w", err)
			}
			success.Fprintln(cmd.OutOrStdout(), "✓ TMDB key saved")
			return nil
		},
	}, &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := authentication.DeleteTMDBKey(); err != nil {
				return fmt.Errorf("failed to clear TMDB key: %w", err)
			}
			success.Fprintln(cmd.OutOrStdout(), "✓ TMDB key cleared")
			return nil
		},
	})
	return cmd
}
