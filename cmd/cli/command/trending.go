package command

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"movierater/cmd/cli/authentication"
)

func newTrendingCmd(opts *rootOptions) *cobra.Command {
	var useTitle int

	cmd := &cobra.Command{
		Use:   "trending",
		Short: "Show this week's trending movies",
		Example: `  movierater trending
  movierater rating add --title "$(movierater trending --use-title 1)"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			httpClient := opts.client()
			key, err := authentication.GetTMDBKey()
			switch {
			case err == nil:
				httpClient.SetTMDBKey(key)
			case !errors.Is(err, authentication.ErrNoTMDBKey):
				return fmt.Errorf("failed to read TMDB key: %w", err)
			}

			movies, err := httpClient.Trending(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load trending movies: %w", err)
			}

			out := cmd.OutOrStdout()
			if cmd.Flags().Changed("use-title") {
				if useTitle < 1 || useTitle > len(movies) {
					return fmt.Errorf("--use-title must be between 1 and %d", len(movies))
				}
				fmt.Fprintln(out, movies[useTitle-1].Title)
				return nil
			}

			if len(movies) == 0 {
				muted.Fprintln(out, "No trending movies right now.")
				return nil
			}
			for i, m := range movies {
				fmt.Fprintf(out, "%2d. ", i+1)
				heading.Fprint(out, m.Title)
				if len(m.ReleaseDate) >= 4 {
					muted.Fprintf(out, " (%s)", m.ReleaseDate[:4])
				}
				fmt.Fprintf(out, "  ★ %.1f\n", m.VoteAverage)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&useTitle, "use-title", 0, "print only the title at this position")
	return cmd
}
