package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Veraticus/scorecard/internal/calc"
	"github.com/Veraticus/scorecard/internal/cli"
	"github.com/Veraticus/scorecard/internal/registry"
	"github.com/spf13/cobra"
)

type tabSummary struct {
	Name   string       `json:"name"`
	Totals calc.Summary `json:"totals"`
	Rows   int          `json:"rows"`
}

type documentSummary struct {
	Tabs   []tabSummary           `json:"tabs"`
	Global registry.GlobalSummary `json:"global"`
}

func summaryCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary <file>",
		Short: "Show per-tab totals and the cross-tab average",
		Long: `Print each tab's weight and score totals, then the score averages over
every tab and the change from the previous period.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openDocument(cmd.Context(), args[0], false)
			if err != nil {
				return err
			}
			defer s.Close()

			summary := documentSummary{Global: s.registry.GlobalSummary()}
			for _, tab := range s.registry.Tabs() {
				summary.Tabs = append(summary.Tabs, tabSummary{
					Name:   tab.Name,
					Rows:   len(tab.TableData),
					Totals: tab.TableData.Totals(),
				})
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}

			table := cli.NewTable(out, "#", "Tab", "Rows", "Prev Weight", "Weight", "Prev Total", "Total", "Change").
				AlignRight(8, 0, 2, 3, 4, 5, 6, 7)
			for i, tab := range summary.Tabs {
				table.Append(
					strconv.Itoa(i+1),
					tab.Name,
					strconv.Itoa(tab.Rows),
					calc.FormatPercent(tab.Totals.PrevWeightTotal),
					calc.FormatPercent(tab.Totals.WeightTotal),
					calc.FormatTotal(tab.Totals.PrevScoreTotal),
					calc.FormatTotal(tab.Totals.CurrentScoreTotal),
					formatChange(tab.Totals.Difference),
				)
			}
			table.Render()

			global := summary.Global
			fmt.Fprintln(out)
			fmt.Fprintln(out, cli.RenderBox(
				fmt.Sprintf("Score (average of %d tab(s))", global.TabCount),
				fmt.Sprintf("Previous  %s\nCurrent   %s\nChange    %s",
					calc.FormatTotal(global.PrevAvg),
					calc.FormatTotal(global.CurrentAvg),
					formatChange(global.Diff)),
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")

	return cmd
}

func formatChange(diff float64) string {
	return cli.FormatDifference(diff, calc.FormatChange(diff))
}
