package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/curator/internal/app"
	"github.com/alexanderramin/curator/internal/archived"
	"github.com/alexanderramin/curator/internal/cli/formatter"
)

func newArchivedCmd(a *App) *cobra.Command {
	var (
		dismiss bool
		scope   string
		setID   string
	)

	cmd := &cobra.Command{
		Use:   "archived",
		Short: "Show or acknowledge archived content in highlight sets",
		Long: `Show or acknowledge archived content in highlight sets.

Archived courses are no longer visible to learners. Acknowledging them
hides the notice until something else is archived. The overview notice
and the per-set banner are acknowledged separately; --scope picks which.
With --set only that highlight set is acknowledged, in the per-set banner
unless --scope says otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if setID != "" && !cmd.Flags().Changed("scope") {
				scope = "set"
			}
			namespaces, err := dismissalScope(scope)
			if err != nil {
				return err
			}
			if setID != "" {
				if !dismiss {
					return fmt.Errorf("--set requires --dismiss")
				}
				if setID, err = parseSetUUID(setID); err != nil {
					return err
				}
			}
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !dismiss {
				ov, err := sess.Overview()
				if err != nil {
					return err
				}
				fmt.Fprint(out, formatArchivedSummary(ov))
				return nil
			}

			if setID == "" {
				for _, ns := range namespaces {
					if err := sess.Dismiss(cmd.Context(), ns); err != nil {
						return err
					}
				}
				fmt.Fprintln(out, formatter.Success("Archived content acknowledged"))
				return nil
			}

			set, err := findLoadedSet(sess, setID)
			if err != nil {
				return err
			}
			for _, ns := range namespaces {
				if err := sess.DismissSet(cmd.Context(), ns, set.UUID); err != nil {
					return err
				}
			}
			fmt.Fprintln(out, formatter.Success(fmt.Sprintf("Archived content in %q acknowledged", set.Title)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dismiss, "dismiss", false, "acknowledge the archived content currently flagged")
	cmd.Flags().StringVar(&scope, "scope", "all", "which notice to acknowledge: course, set or all")
	cmd.Flags().StringVar(&setID, "set", "", "acknowledge only this highlight set (UUID)")

	return cmd
}

func dismissalScope(scope string) ([]archived.Namespace, error) {
	switch strings.ToLower(scope) {
	case "course":
		return []archived.Namespace{archived.NamespaceCourse}, nil
	case "set":
		return []archived.Namespace{archived.NamespaceHighlightSet}, nil
	case "all", "":
		return []archived.Namespace{archived.NamespaceCourse, archived.NamespaceHighlightSet}, nil
	default:
		return nil, fmt.Errorf("invalid --scope %q: want course, set or all", scope)
	}
}

func formatArchivedSummary(ov app.Overview) string {
	var rows [][]string
	for _, s := range ov.Sets {
		if s.Archived == 0 {
			continue
		}
		fresh := formatter.Dim("acknowledged")
		if len(s.NewArchived) > 0 {
			fresh = formatter.StyleYellow.Render(fmt.Sprintf("%d new", len(s.NewArchived)))
		}
		rows = append(rows, []string{formatter.TruncID(s.UUID), s.Title, fmt.Sprint(s.Archived), fresh})
	}
	if len(rows) == 0 {
		return formatter.Dim("No archived content in your highlight sets.") + "\n"
	}

	var b strings.Builder
	if notice := formatter.FormatArchivedNotice(ov); notice != "" {
		b.WriteString(notice)
		b.WriteString("\n\n")
	}
	b.WriteString(formatter.RenderTable([]string{"ID", "TITLE", "ARCHIVED", "STATUS"}, rows))
	return b.String()
}
