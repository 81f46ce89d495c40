package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Veraticus/scorecard/internal/cli"
	"github.com/Veraticus/scorecard/internal/common"
	"github.com/Veraticus/scorecard/internal/engine"
	"github.com/spf13/cobra"
)

func reportCmd(a *app) *cobra.Command {
	var (
		output string
		title  string
	)

	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Export a printable report",
		Long: `Render every non-blank row of every tab as a single HTML report with the
overall period, per-tab totals and the cross-tab averages.`,
		Example: `  scorecard report review.dat
  scorecard report review.dat -o /tmp/q2-review.html --title "Q2 Review"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if title != "" {
				a.settings.ReportTitle = title
			}

			s, err := a.openDocument(ctx, args[0], false)
			if err != nil {
				return err
			}
			defer s.Close()

			if output == "" {
				base := strings.TrimSuffix(s.path, filepath.Ext(s.path))
				output = base + ".html"
			}

			result, err := s.engine.ExportReportTo(ctx, s.registry.Document(), engine.WithExtension(output, ".html"))
			if errors.Is(err, engine.ErrNoData) {
				return common.NewUserError("there is no data to export", err)
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
				"Exported %d row(s) to %s (%s)", result.Rows, result.Path, formatFileSize(int64(result.Bytes)))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "report path (default: next to the document)")
	cmd.Flags().StringVar(&title, "title", "", "report title (overrides report_title)")

	return cmd
}
