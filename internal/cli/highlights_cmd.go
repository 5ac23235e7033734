package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/curator/internal/app"
	"github.com/alexanderramin/curator/internal/cli/formatter"
	"github.com/alexanderramin/curator/internal/domain"
	"github.com/alexanderramin/curator/internal/search"
	"github.com/alexanderramin/curator/internal/service"
	"github.com/alexanderramin/curator/internal/stepper"
)

var errCancelled = errors.New("cancelled")

func newHighlightsCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "highlights",
		Aliases: []string{"hl"},
		Short:   "Manage highlight sets",
	}

	cmd.AddCommand(
		newHighlightsListCmd(a),
		newHighlightsShowCmd(a),
		newHighlightsCreateCmd(a),
		newHighlightsDeleteCmd(a),
		newHighlightsRemoveArchivedCmd(a),
	)

	return cmd
}

func newHighlightsListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List highlight sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOverview(cmd, a)
		},
	}
}

func newHighlightsShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <uuid>",
		Short: "Show the content of a highlight set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setUUID, err := parseSetUUID(args[0])
			if err != nil {
				return err
			}
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			set, err := sess.Curation.GetHighlightSet(cmd.Context(), setUUID)
			if err != nil {
				return err
			}
			newArchived := sess.SetAlerts.Result().Undismissed[set.UUID]
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatHighlightSet(set, newArchived, a.now()))
			return nil
		},
	}
}

func newHighlightsCreateCmd(a *App) *cobra.Command {
	var (
		title   string
		content []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create and publish a highlight set",
		Long: `Create and publish a highlight set.

Without flags on a terminal this opens the step-by-step editor. Otherwise
give a title and one --content flag per item, in display order:

  curator highlights create --title "Spring Picks" \
    --content course:edX+Spring101 --content program:prog-spring`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			if title == "" && len(content) == 0 && a.interactive() {
				debounce := time.Duration(sess.Config.Wizard.DebounceMs) * time.Millisecond
				outcome, err := runWizard(cmd.Context(), sess.Wizard, cmd.InOrStdin(), cmd.OutOrStdout(), debounce)
				if err != nil {
					return err
				}
				if outcome == outcomeDiscarded {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Draft discarded."))
				}
				a.flushToasts(cmd.OutOrStdout())
				return nil
			}
			if err := publishFromFlags(cmd, a, sess, title, content); err != nil {
				return err
			}
			a.flushToasts(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "highlight set title")
	cmd.Flags().StringArrayVarP(&content, "content", "c", nil, "content to highlight as type:key (repeatable)")

	return cmd
}

// publishFromFlags drives the same workflow the editor does, one event per
// flag, so title and capacity rules apply identically.
func publishFromFlags(cmd *cobra.Command, a *App, sess *app.Session, title string, refs []string) error {
	if len(refs) == 0 {
		return stepper.ErrNoContentSelected
	}
	keys := make([]string, 0, len(refs))
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		k, err := parseContentRef(ref)
		if err != nil {
			return err
		}
		if seen[k] {
			return fmt.Errorf("content %q listed more than once", ref)
		}
		seen[k] = true
		keys = append(keys, k)
	}

	ctx := cmd.Context()
	w := sess.Wizard
	w.Open()
	defer func() {
		if wf := w.Workflow(); wf.IsOpen() {
			w.Dispatch(ctx, stepper.RequestClose{})
			w.Dispatch(ctx, stepper.ConfirmExit{})
		}
	}()

	wf, _ := w.Dispatch(ctx, stepper.SetTitle{Title: title})
	if msg := wf.TitleError(); msg != "" {
		return errors.New(msg)
	}
	if wf, _ = w.Dispatch(ctx, stepper.Next{}); wf.Step() != stepper.StepSelectContent {
		if err := wf.BlockedError(); err != nil {
			return err
		}
		return stepper.ErrTitleRequired
	}
	for _, k := range keys {
		w.Dispatch(ctx, stepper.ToggleContent{Key: k})
	}
	if wf = w.Workflow(); wf.Selection().Len() < len(keys) {
		return fmt.Errorf("a highlight set holds at most %d items", wf.Selection().Capacity())
	}
	w.Dispatch(ctx, stepper.Next{})

	stop := formatter.StartSpinner(cmd.ErrOrStderr(), "Publishing "+title)
	_, err := w.Dispatch(ctx, stepper.Publish{})
	stop()
	return err
}

// parseContentRef turns "type:key" into a selection key.
func parseContentRef(ref string) (string, error) {
	typ, key, ok := strings.Cut(ref, ":")
	if !ok || strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("content %q: want type:key, e.g. course:edX+DemoX", ref)
	}
	ct, err := domain.ParseContentType(typ)
	if err != nil {
		return "", fmt.Errorf("content %q: %w", ref, err)
	}
	return search.AggregationKey(string(ct), strings.TrimSpace(key)), nil
}

func newHighlightsDeleteCmd(a *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <uuid>",
		Short: "Delete a highlight set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setUUID, err := parseSetUUID(args[0])
			if err != nil {
				return err
			}
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			set, err := findLoadedSet(sess, setUUID)
			if err != nil {
				return err
			}

			if !yes {
				if !a.interactive() {
					return fmt.Errorf("refusing to delete %q without --yes", set.Title)
				}
				confirmed := false
				if err := newDeleteConfirmForm(set.Title, &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					return errCancelled
				}
			}

			stop := formatter.StartSpinner(cmd.ErrOrStderr(), "Deleting "+set.Title)
			err = sess.Curation.DeleteHighlightSet(cmd.Context(), setUUID)
			stop()
			a.flushToasts(cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func newHighlightsRemoveArchivedCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-archived <uuid>",
		Short: "Remove archived content from a highlight set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setUUID, err := parseSetUUID(args[0])
			if err != nil {
				return err
			}
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			n, err := sess.Curation.RemoveArchivedContent(cmd.Context(), setUUID)
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Nothing archived in this set."))
			}
			a.flushToasts(cmd.OutOrStdout())
			return nil
		},
	}
}

func parseSetUUID(s string) (string, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid highlight set id %q: %w", s, err)
	}
	return id.String(), nil
}

func findLoadedSet(sess *app.Session, setUUID string) (domain.HighlightSet, error) {
	cfg, ok := sess.Store.Config()
	if !ok {
		return domain.HighlightSet{}, service.ErrNotLoaded
	}
	set, ok := cfg.FindHighlightSet(setUUID)
	if !ok {
		return domain.HighlightSet{}, fmt.Errorf("%w: %s", service.ErrUnknownSet, setUUID)
	}
	return set, nil
}
