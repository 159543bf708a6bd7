package command

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"movierater/internal/microservices/http-api/models"
	"movierater/internal/rating"
)

func newFieldsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fields",
		Aliases: []string{"field"},
		Short:   "Manage custom rating fields",
	}
	cmd.AddCommand(
		newFieldsListCmd(opts),
		newFieldsAddCmd(opts),
		newFieldsRemoveCmd(opts),
	)
	return cmd
}

func newFieldsListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List custom fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := opts.client().GetCustomFields(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load custom fields: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(resp.Fields) == 0 {
				muted.Fprintln(out, "No custom fields. Add one with 'movierater fields add'.")
				return nil
			}
			for _, f := range resp.Fields {
				heading.Fprintf(out, "%-24s", f.Label)
				fmt.Fprintf(out, " %-15s", f.Type)
				if f.Required {
					fmt.Fprint(out, " required")
				}
				if len(f.Options) > 0 {
					fmt.Fprintf(out, " [%s]", strings.Join(f.Options, ", "))
				}
				muted.Fprintf(out, "  %s\n", f.ID)
			}
			return nil
		},
	}
}

func newFieldsAddCmd(opts *rootOptions) *cobra.Command {
	var (
		label     string
		fieldType string
		options   string
		required  bool
	)

	types := make([]string, 0, len(rating.FieldTypes))
	for _, ft := range rating.FieldTypes {
		types = append(types, string(ft.Type))
	}

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a custom field",
		Example: `  movierater fields add --label "Watched with" --type text
  movierater fields add --label Mood --type select --options "Happy,Sad" --required`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(label) == "" {
				return fmt.Errorf("--label is required")
			}
			ft, err := rating.ParseFieldType(fieldType)
			if err != nil {
				return err
			}
			def := models.CustomFieldDefinition{
				Label:    label,
				Type:     ft,
				Required: required,
			}
			if ft == models.FieldSelect {
				def.Options = rating.ParseOptions(options)
			}

			httpClient := opts.client()
			current, err := httpClient.GetCustomFields(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load custom fields: %w", err)
			}
			saved, err := httpClient.SaveCustomFields(cmd.Context(), append(current.Fields, def))
			if err != nil {
				return fmt.Errorf("failed to save custom fields: %w", err)
			}

			added := saved.Fields[len(saved.Fields)-1]
			success.Fprintf(cmd.OutOrStdout(), "✓ Added field %q (%s)\n", added.Label, added.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&label, "label", "l", "", "field label")
	cmd.Flags().StringVar(&fieldType, "type", string(models.FieldText), "field type: "+strings.Join(types, ", "))
	cmd.Flags().StringVar(&options, "options", "", "comma separated choices for select fields")
	cmd.Flags().BoolVar(&required, "required", false, "require a value on every rating")
	return cmd
}

func newFieldsRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id-or-label>",
		Aliases: []string{"rm"},
		Short:   "Remove a custom field",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			httpClient := opts.client()
			current, err := httpClient.GetCustomFields(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load custom fields: %w", err)
			}

			target, ok := findField(current.Fields, args[0])
			if !ok {
				return fmt.Errorf("no custom field %q", args[0])
			}
			kept := make([]models.CustomFieldDefinition, 0, len(current.Fields))
			for _, f := range current.Fields {
				if f.ID != target.ID {
					kept = append(kept, f)
				}
			}

			if _, err := httpClient.SaveCustomFields(cmd.Context(), kept); err != nil {
				return fmt.Errorf("failed to save custom fields: %w", err)
			}
			success.Fprintf(cmd.OutOrStdout(), "✓ Removed field %q\n", target.Label)
			return nil
		},
	}
}
