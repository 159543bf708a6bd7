package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"movierater/internal/microservices/http-api/models"
	"movierater/internal/rating"
)

func newCategoriesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "Enable or disable rating categories",
	}
	cmd.AddCommand(
		newCategoriesListCmd(opts),
		newCategoryToggleCmd(opts, "enable", true),
		newCategoryToggleCmd(opts, "disable", false),
	)
	return cmd
}

func newCategoriesListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List categories and whether they are enabled",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := opts.client().ListCategories(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list categories: %w", err)
			}

			out := cmd.OutOrStdout()
			section := ""
			for _, c := range resp.Categories {
				if c.Section != section {
					section = c.Section
					heading.Fprintln(out, section)
				}
				if c.Enabled {
					success.Fprint(out, "  ✓ ")
				} else {
					failure.Fprint(out, "  ✗ ")
				}
				fmt.Fprintf(out, "%-18s", c.Label)
				muted.Fprintf(out, " %s\n", c.ID)
			}
			return nil
		},
	}
}

func newCategoryToggleCmd(opts *rootOptions, verb string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <category-id...>",
		Short: fmt.Sprintf("%s categories", map[bool]string{true: "Enable", false: "Disable"}[enabled]),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range args {
				if !rating.IsCategory(id) {
					return fmt.Errorf("unknown category %q", id)
				}
			}

			httpClient := opts.client()
			settings, err := httpClient.GetCategorySettings(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load category settings: %w", err)
			}
			if settings == nil {
				settings = models.ToggleSettings{}
			}
			for _, id := range args {
				settings[id] = enabled
			}
			if _, err := httpClient.SaveCategorySettings(cmd.Context(), settings); err != nil {
				return fmt.Errorf("failed to save category settings: %w", err)
			}

			for _, id := range args {
				success.Fprintf(cmd.OutOrStdout(), "✓ %s %sd\n", rating.CategoryLabel(id), verb)
			}
			return nil
		},
	}
}
