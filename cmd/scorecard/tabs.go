package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Veraticus/scorecard/internal/calc"
	"github.com/Veraticus/scorecard/internal/cli"
	"github.com/Veraticus/scorecard/internal/common"
	"github.com/Veraticus/scorecard/internal/registry"
	"github.com/Veraticus/scorecard/internal/validation"
	"github.com/spf13/cobra"
)

func tabsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tabs",
		Short: "List and manage category tabs",
		Long: `Each tab is an independent evaluation table. Tabs are addressed by name,
or by their position when no tab has that name.`,
		Example: `  scorecard tabs list review.dat
  scorecard tabs add review.dat Operations
  scorecard tabs rename review.dat Operations "Service Operations"
  scorecard tabs close review.dat 2`,
	}

	cmd.AddCommand(listTabsCmd(a))
	cmd.AddCommand(addTabCmd(a))
	cmd.AddCommand(renameTabCmd(a))
	cmd.AddCommand(closeTabCmd(a))

	return cmd
}

func listTabsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <file>",
		Short: "List the tabs of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openDocument(cmd.Context(), args[0], false)
			if err != nil {
				return err
			}
			defer s.Close()

			table := cli.NewTable(cmd.OutOrStdout(), "#", "Tab", "Rows", "Weight", "Prev Total", "Total", "Problems").
				AlignRight(7, 0, 2, 3, 4, 5, 6)
			for i, tab := range s.registry.Tabs() {
				totals := tab.TableData.Totals()
				table.Append(
					strconv.Itoa(i+1),
					tab.Name,
					strconv.Itoa(len(tab.TableData)),
					calc.FormatPercent(totals.WeightTotal),
					calc.FormatTotal(totals.PrevScoreTotal),
					calc.FormatTotal(totals.CurrentScoreTotal),
					strconv.Itoa(len(validation.ValidateTab(*tab))),
				)
			}
			table.Render()
			return nil
		},
	}
}

func addTabCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <file> [name]",
		Short: "Add a tab with one blank row",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.openDocument(ctx, args[0], true)
			if err != nil {
				return err
			}
			defer s.Close()

			name := ""
			if len(args) == 2 {
				name = args[1]
			}
			tab := s.registry.CreateTab(name)

			if err := s.save(ctx, cmd); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added tab %q", tab.Name)))
			return nil
		},
	}
}

func renameTabCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <file> <tab> <new-name>",
		Short: "Rename a tab",
		Args:  cobra.ExactArgs(3),
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
			old := tab.Name
			renamed, err := s.registry.RenameTab(tab.ID, args[2])
			if err != nil {
				return err
			}
			if !renamed {
				return common.NewUserError("tab name cannot be blank", nil)
			}

			if err := s.save(ctx, cmd); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Renamed %q to %q", old, tab.Name)))
			return nil
		},
	}
}

func closeTabCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "close <file> <tab>",
		Short: "Close a tab and discard its rows",
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
			if s.registry.Len() <= 1 {
				return common.NewUserError("at least one tab is required; the last tab cannot be closed", registry.ErrLastTab)
			}

			prompter := cli.NewCLIPrompter(cmd.InOrStdin(), cmd.OutOrStdout(), yes)
			ok, err := prompter.Confirm(ctx, fmt.Sprintf("Close tab %q? Its %d row(s) will be discarded.", tab.Name, len(tab.TableData)))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), cli.SubtitleStyle.Render("Close cancelled."))
				return nil
			}

			name := tab.Name
			if err := s.registry.CloseTab(tab.ID); err != nil {
				if errors.Is(err, registry.ErrLastTab) {
					return common.NewUserError("at least one tab is required", err)
				}
				return err
			}

			if err := s.save(ctx, cmd); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Closed tab %q", name)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")

	return cmd
}
