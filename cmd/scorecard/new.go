package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/Veraticus/scorecard/internal/cli"
	"github.com/Veraticus/scorecard/internal/common"
	"github.com/Veraticus/scorecard/internal/registry"
	"github.com/spf13/cobra"
)

func newCmd(a *app) *cobra.Command {
	var (
		tabNames []string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "new <file>",
		Short: "Create a new scorecard document",
		Long: `Create a document with one blank row per tab. Without --tab the document
gets a single tab named after the default_tab setting.`,
		Example: `  # Start a document with the default tab
  scorecard new review.dat

  # Start with several category tabs
  scorecard new review --tab Development --tab Operations`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := withDocumentExtension(args[0])

			if _, err := os.Stat(path); err == nil && !force {
				return common.NewUserError(fmt.Sprintf("%s already exists; use --force to overwrite it", path), fs.ErrExist)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to check %s: %w", path, err)
			}

			reg := registry.New(registry.WithDefaultTabName(a.settings.DefaultTab))
			if len(tabNames) > 0 {
				// Replace the default tab with the requested ones.
				first := reg.Active().ID
				for _, name := range tabNames {
					reg.CreateTab(name)
				}
				if err := reg.CloseTab(first); err != nil {
					return err
				}
			}

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			s := &session{
				engine:   a.newEngine(engineOptions{store: store}),
				registry: reg,
				path:     path,
			}
			if err := s.save(ctx, cmd); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created %s with %d tab(s)", path, reg.Len())))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&tabNames, "tab", "t", nil, "tab name (repeatable)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	return cmd
}
