package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/scorecard/internal/calc"
	"github.com/Veraticus/scorecard/internal/cli"
	"github.com/Veraticus/scorecard/internal/common"
	"github.com/Veraticus/scorecard/internal/model"
	"github.com/Veraticus/scorecard/internal/report"
	"github.com/spf13/cobra"
)

func rowsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rows",
		Short: "List and edit the rows of a tab",
		Long: `Rows are addressed by their 1-based number as shown by "rows list".
Weight and score inputs accept any number; anything unparseable counts as 0.
Dates use YYYY.MM.DD or YYYY-MM-DD.`,
		Example: `  scorecard rows list review.dat Development
  scorecard rows add review.dat Development --description "API gateway" --weight 40 --score 85
  scorecard rows edit review.dat Development 1 score=90 endDate=2024.06.30
  scorecard rows delete review.dat Development 2 3`,
	}

	cmd.AddCommand(listRowsCmd(a))
	cmd.AddCommand(addRowCmd(a))
	cmd.AddCommand(editRowCmd(a))
	cmd.AddCommand(deleteRowsCmd(a))

	return cmd
}

func listRowsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <file> <tab>",
		Short: "Show a tab's rows with totals",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openDocument(cmd.Context(), args[0], false)
			if err != nil {
				return err
			}
			defer s.Close()

			tab, err := resolveTab(s.registry, args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle(tab.Name))

			table := cli.NewTable(out, "#", "Description", "Period", "Prev W", "Prev S", "Prev Eval", "Weight", "Score", "Eval").
				AlignRight(9, 0, 3, 4, 5, 6, 7, 8)
			for i, row := range tab.TableData {
				table.Append(
					strconv.Itoa(i+1),
					row.Description,
					report.RowPeriod(row.StartDate, row.EndDate),
					calc.FormatFull(row.PrevWeight),
					calc.FormatFull(row.PrevScore),
					calc.FormatFull(row.PrevEvaluationScore),
					calc.FormatFull(row.Weight),
					calc.FormatFull(row.Score),
					calc.FormatFull(row.EvaluationScore),
				)
			}

			totals := tab.TableData.Totals()
			table.Footer("", "Total", "",
				calc.FormatPercent(totals.PrevWeightTotal), "",
				calc.FormatTotal(totals.PrevScoreTotal),
				calc.FormatPercent(totals.WeightTotal), "",
				calc.FormatTotal(totals.CurrentScoreTotal),
			)
			table.Render()

			diff := calc.FormatChange(totals.Difference)
			fmt.Fprintf(out, "\nChange: %s\n", cli.FormatDifference(totals.Difference, diff))
			return nil
		},
	}
}

// rowFlags are the per-field flags shared by add.
type rowFlags struct {
	values map[model.Field]*string
}

func bindRowFlags(cmd *cobra.Command) *rowFlags {
	rf := &rowFlags{values: make(map[model.Field]*string, len(model.Fields))}
	usage := map[model.Field]string{
		model.FieldDescription: "work item description",
		model.FieldStartDate:   "start date (YYYY.MM.DD)",
		model.FieldEndDate:     "end date (YYYY.MM.DD)",
		model.FieldPrevWeight:  "previous period weight (%)",
		model.FieldPrevScore:   "previous period score",
		model.FieldWeight:      "weight (%)",
		model.FieldScore:       "score",
	}
	for _, field := range model.Fields {
		rf.values[field] = cmd.Flags().String(flagName(field), "", usage[field])
	}
	return rf
}

// apply copies every flag the user set onto row.
func (rf *rowFlags) apply(cmd *cobra.Command, row model.Row) (model.Row, error) {
	for _, field := range model.Fields {
		if !cmd.Flags().Changed(flagName(field)) {
			continue
		}
		edited, err := row.Edit(field, *rf.values[field])
		if err != nil {
			return row, common.NewUserError(fmt.Sprintf("--%s: %v; use YYYY.MM.DD", flagName(field), err), err)
		}
		row = edited
	}
	return row, nil
}

// flagName turns prevWeight into prev-weight.
func flagName(field model.Field) string {
	var b strings.Builder
	for _, r := range string(field) {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func addRowCmd(a *app) *cobra.Command {
	var flags *rowFlags

	cmd := &cobra.Command{
		Use:   "add <file> <tab>",
		Short: "Append a row to a tab",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.openDocument(ctx, args[0], true)
			if err != nil {
				return err
			}
			defer s.Close()

			tab, err := resolveTab(s.registry, args[1])
			if err != nil {
				return err
			}

			draft, err := flags.apply(cmd, model.Row{})
			if err != nil {
				return err
			}
			row, err := s.registry.AddRow(tab.ID, &draft)
			if err != nil {
				return err
			}

			if err := s.save(ctx, cmd); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
				"Added row %d to %q (evaluation %s)", len(tab.TableData), tab.Name, calc.FormatFull(row.EvaluationScore))))
			return nil
		},
	}

	flags = bindRowFlags(cmd)

	return cmd
}

func editRowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <file> <tab> <row> <field=value>...",
		Short: "Change fields of one row",
		Long: `Set one or more fields of a row. Fields are description, startDate,
endDate, prevWeight, prevScore, weight and score. An empty value clears the
field. Evaluation scores are recomputed after every change.`,
		Args: cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.openDocument(ctx, args[0], true)
			if err != nil {
				return err
			}
			defer s.Close()

			tab, err := resolveTab(s.registry, args[1])
			if err != nil {
				return err
			}
			ids, err := resolveRows(tab, args[2:3])
			if err != nil {
				return err
			}

			var row model.Row
			for _, assignment := range args[3:] {
				name, value, ok := strings.Cut(assignment, "=")
				if !ok {
					return common.NewUserError(fmt.Sprintf("expected field=value, got %q", assignment), nil)
				}
				field, err := model.ParseField(name)
				if err != nil {
					return common.NewUserError(fmt.Sprintf("unknown field %q", name), err)
				}
				row, err = s.registry.EditField(tab.ID, ids[0], field, value)
				if err != nil {
					return common.NewUserError(fmt.Sprintf("%s: %v; use YYYY.MM.DD", name, err), err)
				}
			}

			if err := s.save(ctx, cmd); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
				"Updated row %s of %q (evaluation %s, previous %s)", args[2], tab.Name,
				calc.FormatFull(row.EvaluationScore), calc.FormatFull(row.PrevEvaluationScore))))
			return nil
		},
	}
}

func deleteRowsCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <file> <tab> <row>...",
		Short: "Delete rows from a tab",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.openDocument(ctx, args[0], true)
			if err != nil {
				return err
			}
			defer s.Close()

			tab, err := resolveTab(s.registry, args[1])
			if err != nil {
				return err
			}
			ids, err := resolveRows(tab, args[2:])
			if err != nil {
				return err
			}

			prompter := cli.NewCLIPrompter(cmd.InOrStdin(), cmd.OutOrStdout(), yes)
			ok, err := prompter.Confirm(ctx, fmt.Sprintf("Delete %d row(s) from %q?", len(ids), tab.Name))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), cli.SubtitleStyle.Render("Deletion cancelled."))
				return nil
			}

			removed, err := s.registry.DeleteRows(tab.ID, ids...)
			if err != nil {
				return err
			}

			if err := s.save(ctx, cmd); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted %d row(s) from %q", removed, tab.Name)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")

	return cmd
}
