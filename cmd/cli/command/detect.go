package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDetectCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "detect [url...]",
		Short: "Detect the movie title and genre of streaming pages",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			httpClient := opts.client()
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				result, err := httpClient.Detect(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("failed to detect: %w", err)
				}
				if result.Title == "" {
					failure.Fprintln(out, "✗ No title found")
				} else {
					heading.Fprintln(out, result.Title)
				}
				if result.Genre != "" {
					fmt.Fprintf(out, "Genre: %s\n", result.Genre)
				}
				return nil
			}

			results, err := httpClient.BatchDetect(cmd.Context(), args)
			if err != nil {
				return fmt.Errorf("failed to detect: %w", err)
			}
			for _, r := range results {
				switch {
				case r.Error != "":
					failure.Fprintf(out, "✗ %s: %s\n", r.URL, r.Error)
				case r.Title == "":
					failure.Fprintf(out, "✗ %s: no title found\n", r.URL)
				default:
					success.Fprintf(out, "✓ %s", r.Title)
					if r.Genre != "" {
						fmt.Fprintf(out, " (%s)", r.Genre)
					}
					muted.Fprintf(out, "  %s\n", r.URL)
				}
			}
			return nil
		},
	}
}
