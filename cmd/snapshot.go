package cmd

import (
	"fmt"
	"os"

	snapshotrender "github.com/envsnap/envsnap/internal/adapters/render/snapshot"
	"github.com/envsnap/envsnap/internal/domain"
	"github.com/spf13/cobra"
)

func newSnapshotCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Manage archived snapshots",
	}

	cmd.AddCommand(
		newSnapshotListCmd(app),
		newSnapshotShowCmd(app),
		newSnapshotRmCmd(app),
		newSnapshotClearCmd(app),
		newSnapshotExportCmd(app),
		newSnapshotImportCmd(app),
	)

	return cmd
}

func newSnapshotListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List archived snapshots",
		RunE: func(cmd *cobra.Command, _ []string) error {
			snapshots, err := app.archive.List(cmd.Context())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), snapshotrender.RenderList(snapshots))
			return err
		},
	}
}

func newSnapshotShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show one archived snapshot in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := app.archive.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), snapshotrender.RenderShow(snap))
			return err
		},
	}
}

func newSnapshotRmCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm NAME",
		Short: "Remove an archived snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.archive.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Removed snapshot %q\n", args[0])
			return err
		},
	}
}

func newSnapshotClearCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all archived snapshots",
		RunE: func(cmd *cobra.Command, _ []string) error {
			snapshots, err := app.archive.List(cmd.Context())
			if err != nil {
				return err
			}

			for _, snap := range snapshots {
				if err := app.archive.Delete(cmd.Context(), snap.Name); err != nil {
					return err
				}
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d snapshots\n", len(snapshots))
			return err
		},
	}
}

func newSnapshotExportCmd(app *app) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export NAME",
		Short: "Export an archived snapshot as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := app.archive.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			text, err := snap.ToJSON()
			if err != nil {
				return err
			}

			if outPath == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
				return err
			}

			return os.WriteFile(outPath, []byte(text+"\n"), 0o644)
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write JSON to a file instead of stdout")

	return cmd
}

func newSnapshotImportCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a snapshot from a JSON file into the archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read snapshot file: %w", err)
			}

			snap, err := domain.SnapshotFromJSON(string(data))
			if err != nil {
				return err
			}

			if err := app.archive.Save(cmd.Context(), snap); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported snapshot %q (%d packages)\n", snap.Name, snap.PackageCount())
			return err
		},
	}
}
