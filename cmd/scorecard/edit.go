package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Veraticus/scorecard/internal/common"
	"github.com/Veraticus/scorecard/internal/registry"
	"github.com/Veraticus/scorecard/internal/tui"
	"github.com/Veraticus/scorecard/internal/tui/themes"
	"github.com/spf13/cobra"
)

func editCmd(a *app) *cobra.Command {
	var (
		recordDir string
		noHelp    bool
	)

	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Open the interactive editor",
		Long: `Edit tabs and rows in a full-screen table. A missing file starts a new
document that is saved to that path. Without a file the editor starts empty
and asks for a path on the first save.

Logs go to the log file while the editor owns the terminal.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			theme, err := themes.Lookup(a.settings.Theme)
			if err != nil {
				return common.NewUserError(err.Error(), common.ErrInvalidConfig)
			}

			closeLog, err := a.redirectLogs()
			if err != nil {
				return err
			}
			defer closeLog()

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			reg := registry.New(registry.WithDefaultTabName(a.settings.DefaultTab))
			bridge := tui.NewBridge()

			path := ""
			if len(args) == 1 {
				path = withDocumentExtension(args[0])
			}
			eng := a.newEngine(engineOptions{
				store:       store,
				dialog:      bridge,
				prompter:    bridge,
				blockOnSave: a.settings.BlockOnSave,
			})

			if path != "" {
				result, err := eng.LoadFrom(ctx, path, reg.Document())
				switch {
				case errors.Is(err, fs.ErrNotExist):
					eng = a.newEngine(engineOptions{
						store:       store,
						dialog:      bridge,
						prompter:    bridge,
						blockOnSave: a.settings.BlockOnSave,
						currentPath: path,
					})
				case err != nil:
					return err
				default:
					reg.Load(result.Document.Tabs)
				}
			}

			opts := []tui.Option{
				tui.WithRegistry(reg),
				tui.WithEngine(eng, bridge),
				tui.WithTheme(theme),
				tui.WithHelp(!noHelp),
			}
			if recordDir != "" {
				rec, err := tui.NewRecorder(recordDir)
				if err != nil {
					return err
				}
				defer rec.Close()
				opts = append(opts, tui.WithRecorder(rec))
			}

			return tui.Run(ctx, opts...)
		},
	}

	cmd.Flags().StringVar(&recordDir, "record", "", "write every frame to this directory")
	cmd.Flags().BoolVar(&noHelp, "no-help", false, "hide the key help line")

	return cmd
}

// redirectLogs sends logs to the configured log file until the returned
// function is called.
func (a *app) redirectLogs() (func(), error) {
	if err := os.MkdirAll(filepath.Dir(a.settings.LogFile), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(a.settings.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	level, err := common.ParseLevel(a.settings.LogLevel)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if err := common.SetupLoggerTo(file, level, "json"); err != nil {
		_ = file.Close()
		return nil, err
	}

	return func() {
		_ = file.Close()
	}, nil
}
