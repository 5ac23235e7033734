package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/curator/internal/app"
	"github.com/alexanderramin/curator/internal/cli/formatter"
)

// App is what every command reaches the curation session through. The
// session is connected lazily so help and flag errors never touch the
// network.
type App struct {
	Connect       func(ctx context.Context) (*app.Session, error)
	IsInteractive func() bool
	Now           func() time.Time

	sess *app.Session
}

func (a *App) session(ctx context.Context) (*app.Session, error) {
	if a.sess != nil {
		return a.sess, nil
	}
	if a.Connect == nil {
		return nil, fmt.Errorf("no session configured")
	}
	sess, err := a.Connect(ctx)
	if err != nil {
		return nil, err
	}
	a.sess = sess
	return sess, nil
}

// Close releases the connected session, if any.
func (a *App) Close() error {
	if a.sess == nil {
		return nil
	}
	err := a.sess.Close()
	a.sess = nil
	return err
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// flushToasts prints and drops every queued notification.
func (a *App) flushToasts(w io.Writer) {
	if a.sess == nil {
		return
	}
	for {
		t, ok := a.sess.Toasts.Pop()
		if !ok {
			return
		}
		fmt.Fprintln(w, formatter.FormatToast(t))
	}
}

// NewRootCmd creates the top-level "curator" command and registers all
// subcommands against the provided App.
func NewRootCmd(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "curator",
		Short:         "Curate highlighted catalog content for an enterprise",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOverview(cmd, a)
		},
	}

	root.AddCommand(
		newHighlightsCmd(a),
		newVisibilityCmd(a),
		newArchivedCmd(a),
		newSearchCmd(a),
	)

	return root
}

func runOverview(cmd *cobra.Command, a *App) error {
	sess, err := a.session(cmd.Context())
	if err != nil {
		return err
	}
	ov, err := sess.Overview()
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatOverview(ov))
	return nil
}
