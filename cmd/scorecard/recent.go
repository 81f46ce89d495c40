package main

import (
	"fmt"
	"strconv"

	"github.com/Veraticus/scorecard/internal/cli"
	"github.com/spf13/cobra"
)

func recentCmd(a *app) *cobra.Command {
	var (
		limit  int
		forget string
	)

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently opened and saved documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if forget != "" {
				if err := store.ForgetRecentFile(ctx, withDocumentExtension(forget)); err != nil {
					return err
				}
				fmt.Fprintln(out, cli.FormatSuccess("Removed "+forget+" from recent files"))
				return nil
			}

			files, err := store.RecentFiles(ctx, limit)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintln(out, cli.SubtitleStyle.Render("No recent files."))
				return nil
			}

			table := cli.NewTable(out, "PATH", "LAST", "WHEN", "TABS").AlignRight(4, 3)
			for _, f := range files {
				table.Append(f.Path, string(f.Action), formatRelativeTime(f.UsedAt), strconv.Itoa(f.Tabs))
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of files to show")
	cmd.Flags().StringVar(&forget, "forget", "", "remove a path from the list")

	return cmd
}
