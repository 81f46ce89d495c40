package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/Veraticus/scorecard/internal/cli"
	"github.com/Veraticus/scorecard/internal/common"
	"github.com/Veraticus/scorecard/internal/registry"
	"github.com/Veraticus/scorecard/internal/storage"
	"github.com/spf13/cobra"
)

func checkpointCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkpoint",
		Short: "Manage document checkpoints",
		Long: `Create, list, restore, and delete document checkpoints.

Checkpoints are snapshots of a document kept in the history database. An
automatic checkpoint is taken whenever a document with rows is replaced by
opening another file, and before a restore overwrites a file.`,
		Example: `  # Snapshot a document before a large edit
  scorecard checkpoint create review.dat --tag pre-q3

  # List all checkpoints
  scorecard checkpoint list

  # Write a checkpoint back to a file
  scorecard checkpoint restore pre-q3 review.dat

  # Delete an old checkpoint
  scorecard checkpoint delete pre-q3`,
	}

	cmd.AddCommand(createCheckpointCmd(a))
	cmd.AddCommand(listCheckpointsCmd(a))
	cmd.AddCommand(restoreCheckpointCmd(a))
	cmd.AddCommand(deleteCheckpointCmd(a))

	return cmd
}

func createCheckpointCmd(a *app) *cobra.Command {
	var tag string
	var description string

	cmd := &cobra.Command{
		Use:   "create <file>",
		Short: "Create a new checkpoint",
		Long:  `Store a snapshot of the document in the history database.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := a.openDocument(ctx, args[0], false)
			if err != nil {
				return err
			}
			defer s.Close()

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			info, err := store.NewCheckpointManager().Create(ctx, tag, description, s.registry.Document())
			if err != nil {
				if errors.Is(err, storage.ErrInvalidTag) || errors.Is(err, storage.ErrCheckpointExists) {
					return common.NewUserError(err.Error(), err)
				}
				return fmt.Errorf("failed to create checkpoint: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Created checkpoint %s (%s, %d tab(s), %d row(s))\n",
				cli.SuccessStyle.Render("✓"),
				cli.InfoStyle.Render(info.ID),
				formatFileSize(int64(info.Size)),
				info.Tabs,
				info.Rows)

			if info.Description != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "  Description: %s\n", info.Description)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "", "Checkpoint tag/name (auto-generated if not provided)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description of the checkpoint")

	return cmd
}

func listCheckpointsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all checkpoints",
		Long:  `Display all available checkpoints with their metadata.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			checkpoints, err := store.NewCheckpointManager().List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list checkpoints: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(checkpoints) == 0 {
				fmt.Fprintln(out, cli.SubtitleStyle.Render("No checkpoints found."))
				return nil
			}

			table := cli.NewTable(out, "NAME", "CREATED", "SIZE", "TABS", "ROWS", "TYPE").
				AlignRight(6, 2, 3, 4)
			for _, cp := range checkpoints {
				typeLabel := "manual"
				if cp.IsAuto {
					typeLabel = "auto"
				}

				table.Append(
					cp.ID,
					formatRelativeTime(cp.CreatedAt),
					formatFileSize(int64(cp.Size)),
					strconv.Itoa(cp.Tabs),
					strconv.Itoa(cp.Rows),
					typeLabel,
				)
			}
			table.Render()

			return nil
		},
	}
}

func restoreCheckpointCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "restore <checkpoint-id> <file>",
		Short: "Write a checkpoint to a file",
		Long: `Replace the contents of file with a checkpoint. When the file already
holds rows they are checkpointed automatically first.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			checkpointID := args[0]
			path := withDocumentExtension(args[1])

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()
			manager := store.NewCheckpointManager()

			info, err := manager.GetCheckpointInfo(ctx, checkpointID)
			if err != nil {
				if errors.Is(err, storage.ErrCheckpointNotFound) {
					return common.NewUserError(fmt.Sprintf("no checkpoint named %q", checkpointID), err)
				}
				return fmt.Errorf("failed to get checkpoint info: %w", err)
			}

			out := cmd.OutOrStdout()
			prompter := cli.NewCLIPrompter(cmd.InOrStdin(), out, force)
			message := fmt.Sprintf("This will replace %s with checkpoint %s (created %s).",
				path, checkpointID, info.CreatedAt.Format("2006-01-02 15:04:05"))
			ok, err := prompter.Confirm(ctx, message)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, cli.SubtitleStyle.Render("Restore cancelled."))
				return nil
			}

			doc, err := manager.Restore(ctx, checkpointID)
			if err != nil {
				return fmt.Errorf("failed to restore checkpoint: %w", err)
			}

			eng := a.newEngine(engineOptions{store: store})
			current, err := eng.ReadDocument(ctx, path)
			switch {
			case err == nil && current.Document.RowCount() > 0:
				if _, err := manager.AutoCheckpoint(ctx, "restore", current.Document); err != nil {
					return fmt.Errorf("failed to checkpoint %s before restore: %w", path, err)
				}
			case err != nil && !errors.Is(err, fs.ErrNotExist):
				return err
			}

			reg := registry.New(registry.WithDefaultTabName(a.settings.DefaultTab))
			reg.Load(doc.Tabs)
			s := &session{engine: eng, registry: reg, path: path}
			if err := s.save(ctx, cmd); err != nil {
				return err
			}

			fmt.Fprintf(out, "%s Restored %s from checkpoint %s\n",
				cli.SuccessStyle.Render("✓"),
				path,
				cli.InfoStyle.Render(checkpointID))

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

func deleteCheckpointCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <checkpoint-id>",
		Short: "Delete a checkpoint",
		Long:  `Permanently remove a checkpoint.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			checkpointID := args[0]

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()
			manager := store.NewCheckpointManager()

			info, err := manager.GetCheckpointInfo(ctx, checkpointID)
			if err != nil {
				if errors.Is(err, storage.ErrCheckpointNotFound) {
					return common.NewUserError(fmt.Sprintf("no checkpoint named %q", checkpointID), err)
				}
				return fmt.Errorf("failed to get checkpoint info: %w", err)
			}

			out := cmd.OutOrStdout()
			prompter := cli.NewCLIPrompter(cmd.InOrStdin(), out, force)
			ok, err := prompter.Confirm(ctx, fmt.Sprintf("This will permanently delete checkpoint %s (%s).",
				checkpointID, formatFileSize(int64(info.Size))))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, cli.SubtitleStyle.Render("Deletion cancelled."))
				return nil
			}

			if err := manager.Delete(ctx, checkpointID); err != nil {
				return fmt.Errorf("failed to delete checkpoint: %w", err)
			}

			fmt.Fprintf(out, "%s Deleted checkpoint %s\n",
				cli.SuccessStyle.Render("✓"),
				cli.InfoStyle.Render(checkpointID))

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}
