package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/curator/internal/cli/formatter"
	"github.com/alexanderramin/curator/internal/service"
)

// visibilityMode is the learner catalog mode accepted on the command line.
type visibilityMode string

const (
	modeHighlighted visibilityMode = "highlighted"
	modeAll         visibilityMode = "all"
)

var _ pflag.Value = (*visibilityMode)(nil)

func (m *visibilityMode) String() string { return string(*m) }

func (m *visibilityMode) Set(s string) error {
	switch visibilityMode(s) {
	case modeHighlighted, modeAll:
		*m = visibilityMode(s)
		return nil
	default:
		return fmt.Errorf("must be %q or %q", modeHighlighted, modeAll)
	}
}

func (m *visibilityMode) Type() string { return "mode" }

func newVisibilityCmd(a *App) *cobra.Command {
	var mode visibilityMode

	cmd := &cobra.Command{
		Use:   "visibility [highlighted|all]",
		Short: "Show or set which catalog content learners see",
		Long: `Show or set which catalog content learners see.

"highlighted" limits learners to content in highlight sets and needs at
least one set. "all" shows the whole catalog. Without an argument the
current mode is printed.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(modeHighlighted), string(modeAll)},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if cmd.Flags().Changed("mode") {
					return fmt.Errorf("give the mode as an argument or with --mode, not both")
				}
				if err := mode.Set(args[0]); err != nil {
					return fmt.Errorf("invalid visibility %q: %w", args[0], err)
				}
			}

			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			if mode == "" {
				cfg, ok := sess.Store.Config()
				if !ok {
					return service.ErrNotLoaded
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.VisibilityBadge(cfg.CanOnlyViewHighlightSets))
				return nil
			}

			_, err = sess.Curation.SetVisibility(cmd.Context(), mode == modeHighlighted)
			a.flushToasts(cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().Var(&mode, "mode", `learner catalog mode: "highlighted" or "all"`)

	return cmd
}
