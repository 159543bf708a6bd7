package command

// root.go defines the root command and the global flags.

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"movierater/cmd/cli/command/client"
)

const defaultAPIURL = "http://localhost:8080"

type rootOptions struct {
	apiURL string
}

func (o *rootOptions) client() *client.HTTPClient {
	return client.NewHTTPClient(o.apiURL)
}

// NewRootCmd builds the movierater command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "movierater",
		Short: "movierater - rate the movies you watch",
		Long: `movierater talks to a movierater API server. Use it to:
- Detect the movie title and genre of a streaming page
- Record multi-category ratings and browse them
- Manage rating categories and custom fields
- See this week's trending movies`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			if !cmd.Flags().Changed("api") {
				if env := os.Getenv("MOVIERATER_API"); env != "" {
					opts.apiURL = env
				}
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.apiURL, "api", defaultAPIURL, "API server URL (env MOVIERATER_API)")

	cmd.AddCommand(
		newDetectCmd(opts),
		newRatingCmd(opts),
		newFieldsCmd(opts),
		newCategoriesCmd(opts),
		newTrendingCmd(opts),
		newTMDBKeyCmd(),
		newWatchCmd(opts),
	)
	return cmd
}
