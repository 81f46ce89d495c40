package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/scorecard/internal/cli"
	"github.com/Veraticus/scorecard/internal/codec"
	"github.com/Veraticus/scorecard/internal/common"
	"github.com/Veraticus/scorecard/internal/registry"
	"github.com/spf13/cobra"
)

func convertCmd(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "convert <file|dir>...",
		Short: "Upgrade legacy single-table files to the tabbed format",
		Long: `Rewrite files saved in the legacy {"data": [...]} layout as tabbed documents.
The legacy table becomes a single tab with the built-in default name, and
the original contents are checkpointed before each file is rewritten.
Directories are searched for .dat files, non-recursively. Files already in
the tabbed format are left alone.`,
		Example: `  scorecard convert old.dat
  scorecard convert ~/evaluations --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			files, err := collectDocuments(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintln(out, cli.SubtitleStyle.Render("No .dat files found."))
				return nil
			}

			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			eng := a.newEngine(engineOptions{store: store})
			checkpoints := store.NewCheckpointManager()

			handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
			ctx, stop := handler.HandleInterrupts(cmd.Context(), "Files converted so far were kept.")
			defer stop()

			bar := cli.NewProgressBar(cmd.ErrOrStderr(), len(files), "Converting")

			var converted, skipped, failed int
			for _, path := range files {
				if ctx.Err() != nil {
					break
				}

				decoded, err := eng.ReadDocument(ctx, path)
				switch {
				case err != nil:
					failed++
					slog.Warn("failed to read document", "path", path, "error", err)
				case decoded.Shape != codec.ShapeLegacy:
					skipped++
				case dryRun:
					converted++
				default:
					// Loading assigns IDs to legacy rows that never had one.
					reg := registry.New(registry.WithDefaultTabName(a.settings.DefaultTab))
					reg.Load(decoded.Document.Tabs)
					doc := reg.Document()

					if decoded.Document.RowCount() > 0 {
						if _, err := checkpoints.AutoCheckpoint(ctx, "convert", decoded.Document); err != nil {
							failed++
							slog.Warn("failed to checkpoint before convert", "path", path, "error", err)
							break
						}
					}
					if _, err := eng.SaveTo(ctx, doc, path); err != nil {
						failed++
						slog.Warn("failed to convert document", "path", path, "error", err)
						break
					}
					converted++
				}
				_ = bar.Add(1)
			}

			common.LogInfo("conversion finished", common.Fields{
				"converted":   converted,
				"skipped":     skipped,
				"failed":      failed,
				"dry_run":     dryRun,
				"interrupted": handler.WasInterrupted(),
			})

			verb := "Converted"
			if dryRun {
				verb = "Would convert"
			}
			summary := fmt.Sprintf("%s %d file(s), %d already current, %d failed", verb, converted, skipped, failed)
			switch {
			case handler.WasInterrupted():
				fmt.Fprintln(out, cli.FormatWarning(summary+" before the interrupt"))
			case failed > 0:
				fmt.Fprintln(out, cli.FormatWarning(summary+"; rerun with --log-level debug for details"))
			default:
				fmt.Fprintln(out, cli.FormatSuccess(summary))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing")

	return cmd
}

// collectDocuments expands directories to the .dat files directly inside
// them.
func collectDocuments(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to access %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(arg, "*.dat"))
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", arg, err)
		}
		files = append(files, matches...)
	}
	return files, nil
}
