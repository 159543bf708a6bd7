package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"movierater/cmd/cli/command/client"
	"movierater/internal/microservices/http-api/dto"
	"movierater/internal/microservices/http-api/models"
	"movierater/internal/rating"
)

func newRatingCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rating",
		Aliases: []string{"ratings"},
		Short:   "Record and browse movie ratings",
	}
	cmd.AddCommand(
		newRatingAddCmd(opts),
		newRatingListCmd(opts),
		newRatingShowCmd(opts),
		newRatingDeleteCmd(opts),
		newRatingExportCmd(opts),
	)
	return cmd
}

func newRatingAddCmd(opts *rootOptions) *cobra.Command {
	var (
		title       string
		genre       string
		dateWatched string
		detectURL   string
		all         int
		scores      map[string]int
		fields      map[string]string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Save a new rating",
		Example: `  movierater rating add --title "Heat" --all 8 --score acting=10
  movierater rating add --detect https://www.netflix.com/watch/80057281 --field "Watched with=Sam"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			httpClient := opts.client()
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if detectURL != "" {
				result, err := httpClient.Detect(ctx, detectURL)
				if err != nil {
					return fmt.Errorf("failed to detect: %w", err)
				}
				if title == "" {
					title = result.Title
				}
				if genre == "" {
					genre = result.Genre
				}
				if result.Title != "" {
					muted.Fprintf(out, "Detected: %s\n", result.Title)
				}
			}
			if strings.TrimSpace(title) == "" {
				return errors.New("a movie title is required (use --title or --detect)")
			}

			req := dto.CreateRatingRequest{
				MovieTitle:  title,
				Genre:       genre,
				DateWatched: dateWatched,
				Ratings:     map[string]int{},
			}
			if cmd.Flags().Changed("all") {
				for _, c := range rating.Categories {
					req.Ratings[c.ID] = all
				}
			}
			for id, v := range scores {
				if !rating.IsCategory(id) {
					return fmt.Errorf("unknown category %q (see 'movierater categories list')", id)
				}
				req.Ratings[id] = v
			}

			if len(fields) > 0 {
				custom, err := resolveFieldValues(cmd, httpClient, fields)
				if err != nil {
					return err
				}
				req.CustomFields = custom
			}

			record, err := httpClient.CreateRating(ctx, req)
			if err != nil {
				return fmt.Errorf("failed to save rating: %w", err)
			}
			success.Fprintf(out, "✓ Rating saved: %s\n", record.MovieTitle)
			fmt.Fprintf(out, "Total score: %.1f %s\n", record.TotalScore, stars(record.TotalScore))
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "movie title")
	cmd.Flags().StringVar(&genre, "genre", "", "genre")
	cmd.Flags().StringVar(&dateWatched, "date-watched", "", "when you watched it (2006-01-02 or 2006-01-02T15:04)")
	cmd.Flags().StringVar(&detectURL, "detect", "", "detect title and genre from a streaming page URL")
	cmd.Flags().IntVar(&all, "all", rating.DefaultScore, "score applied to every category")
	cmd.Flags().StringToIntVarP(&scores, "score", "s", nil, "category scores, e.g. acting=8,sound=7")
	cmd.Flags().StringToStringVar(&fields, "field", nil, "custom field values by ID or label, e.g. \"Watched with=Sam\"")
	return cmd
}

// resolveFieldValues maps --field keys, given as IDs or labels, onto the
// declared custom field IDs.
func resolveFieldValues(cmd *cobra.Command, httpClient *client.HTTPClient, values map[string]string) (map[string]any, error) {
	resp, err := httpClient.GetCustomFields(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to load custom fields: %w", err)
	}

	custom := make(map[string]any, len(values))
	for key, value := range values {
		def, ok := findField(resp.Fields, key)
		if !ok {
			return nil, fmt.Errorf("no custom field %q", key)
		}
		custom[def.ID] = value
	}
	return custom, nil
}

func findField(fields []models.CustomFieldDefinition, key string) (models.CustomFieldDefinition, bool) {
	for _, f := range fields {
		if f.ID == key || strings.EqualFold(f.Label, key) {
			return f, true
		}
	}
	return models.CustomFieldDefinition{}, false
}

func newRatingListCmd(opts *rootOptions) *cobra.Command {
	var params dto.RatingQueryParams

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved ratings",
		Example: `  movierater rating list --search heat --score 8-10 --sort score-desc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := opts.client().ListRatings(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("failed to list ratings: %w", err)
			}

			out := cmd.OutOrStdout()
			heading.Fprintln(out, result.Summary)
			if result.Total == 0 {
				muted.Fprintln(out, "No ratings yet. Add one with 'movierater rating add'.")
				return nil
			}
			if result.Shown == 0 {
				muted.Fprintln(out, "No ratings match the current filters.")
				return nil
			}
			for _, r := range result.Ratings {
				printRecordLine(out, r)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&params.Search, "search", "", "case-insensitive title search")
	cmd.Flags().StringVar(&params.Score, "score", "", "score range: 0-4, 4-6, 6-8 or 8-10")
	cmd.Flags().StringVar(&params.From, "from", "", "first day to include (2006-01-02)")
	cmd.Flags().StringVar(&params.To, "to", "", "last day to include (2006-01-02)")
	cmd.Flags().StringVar(&params.Sort, "sort", "", "date-desc, date-asc, score-desc, score-asc, title-asc or title-desc")
	return cmd
}

func newRatingShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one rating in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRatingID(args[0])
			if err != nil {
				return err
			}
			detail, err := opts.client().GetRating(cmd.Context(), id)
			if err != nil {
				if client.IsNotFound(err) {
					return fmt.Errorf("rating %d not found", id)
				}
				return fmt.Errorf("failed to get rating: %w", err)
			}

			out := cmd.OutOrStdout()
			heading.Fprintln(out, detail.MovieTitle)
			if detail.Genre != "" {
				fmt.Fprintf(out, "Genre:   %s\n", detail.Genre)
			}
			if detail.DateWatched != nil {
				fmt.Fprintf(out, "Watched: %s\n", *detail.DateWatched)
			}
			fmt.Fprintf(out, "Rated:   %s\n", detail.Date.Local().Format("2006-01-02 15:04"))
			fmt.Fprintf(out, "Score:   %.1f %s\n", detail.TotalScore, stars(detail.TotalScore))

			if len(detail.CategoryScores) > 0 {
				fmt.Fprintln(out)
				for _, s := range detail.CategoryScores {
					fmt.Fprintf(out, "  %-18s %2d\n", s.Label, s.Score)
				}
			}
			if len(detail.CustomValues) > 0 {
				fmt.Fprintln(out)
				for _, v := range detail.CustomValues {
					fmt.Fprintf(out, "  %-18s %v\n", v.Label, v.Value)
				}
			}
			return nil
		},
	}
}

func newRatingDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a rating",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRatingID(args[0])
			if err != nil {
				return err
			}
			if err := opts.client().DeleteRating(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to delete rating: %w", err)
			}
			success.Fprintf(cmd.OutOrStdout(), "✓ Rating %d deleted\n", id)
			return nil
		},
	}
}

func newRatingExportCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every rating as JSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unsupported format %q (use json or yaml)", format)
			}

			result, err := opts.client().ListRatings(cmd.Context(), dto.RatingQueryParams{})
			if err != nil {
				return fmt.Errorf("failed to list ratings: %w", err)
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			if err := encodeRatings(w, format, result.Ratings); err != nil {
				return fmt.Errorf("failed to export ratings: %w", err)
			}
			if w != cmd.OutOrStdout() {
				success.Fprintf(cmd.OutOrStdout(), "✓ Exported %d ratings to %s\n", len(result.Ratings), output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func encodeRatings(w io.Writer, format string, records []models.RatingRecord) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func parseRatingID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid rating id %q", s)
	}
	return id, nil
}
