package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/curator/internal/cli/formatter"
)

func newSearchCmd(a *App) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search the enterprise catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if page < 1 {
				return fmt.Errorf("--page must be 1 or greater")
			}
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")
			res, err := sess.Search.Browse(cmd.Context(), query, page-1)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHits(res))
			return nil
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "result page, starting at 1")

	return cmd
}
