package cli

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newSearchCommand() *cobra.Command {
	var page, size int
	cmd := &cobra.Command{
		Use:   "search KEYWORD...",
		Short: "Search novels",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}
			res, err := a.svc.Search.Novels(cmd.Context(), strings.Join(args, " "), page, size)
			if err != nil {
				return err
			}
			return a.render(res, searchTable(res))
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "page number, starting at 0")
	cmd.Flags().IntVar(&size, "size", 0, "page size")
	return cmd
}

func newSuggestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest PREFIX",
		Short: "Complete a title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}
			titles, err := a.svc.Search.Suggestions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if titles == nil {
				titles = []string{}
			}
			return a.render(titles, func(t table.Writer) {
				t.AppendHeader(table.Row{"Suggestion"})
				for _, title := range titles {
					t.AppendRow(table.Row{title})
				}
			})
		},
	}
}
