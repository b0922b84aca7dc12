package cmd

import (
	"context"
	"fmt"

	snapshotrender "github.com/envsnap/envsnap/internal/adapters/render/snapshot"
	"github.com/envsnap/envsnap/internal/application"
	"github.com/spf13/cobra"
)

func newNotebookCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notebook",
		Short: "Embed snapshots into notebooks and restore from them",
	}

	cmd.AddCommand(
		newNotebookEmbedCmd(app),
		newNotebookExtractCmd(app),
		newNotebookRestoreCmd(app),
	)

	return cmd
}

func newNotebookEmbedCmd(app *app) *cobra.Command {
	var notebookPath string

	cmd := &cobra.Command{
		Use:   "embed NAME",
		Short: "Embed an archived snapshot into a notebook's metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.loadIntoStore(cmd.Context(), args[0]); err != nil {
				return err
			}

			snap, path, err := app.notebook.Embed(args[0], notebookPath)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Embedded snapshot %q (%d packages) into %s\n",
				snap.Name, snap.PackageCount(), path)
			return err
		},
	}

	cmd.Flags().StringVarP(&notebookPath, "file", "f", "", "notebook path (auto-detected when omitted)")

	return cmd
}

func newNotebookExtractCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "extract FILE",
		Short: "Print the snapshot embedded in a notebook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, ok, err := app.notebook.Extract(args[0])
			if err != nil {
				return err
			}
			if !ok {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "No embedded snapshot found.")
				return err
			}

			if asJSON {
				text, err := snap.ToJSON()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), snapshotrender.RenderShow(snap))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the snapshot as JSON")

	return cmd
}

func newNotebookRestoreCmd(app *app) *cobra.Command {
	var (
		notebookPath string
		dryRun       bool
		perPackage   bool
	)

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Restore the environment embedded in a notebook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := restoreOptions(dryRun, perPackage)

			var report application.RestoreReport
			run := func(ctx context.Context) error {
				var err error
				report, err = app.notebook.RestoreFromNotebook(ctx, notebookPath, opts)
				return err
			}

			var runErr error
			if dryRun {
				runErr = run(cmd.Context())
			} else {
				runErr = runInstallSpinner(cmd.Context(), cmd.OutOrStdout(), "Installing packages...", run)
			}

			if report.Snapshot.Name != "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), snapshotrender.RenderRestore(report))
			}

			return runErr
		},
	}

	cmd.Flags().StringVarP(&notebookPath, "file", "f", "", "notebook path (auto-detected when omitted)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be installed without installing")
	cmd.Flags().BoolVar(&perPackage, "per-package", false, "install one package per pip invocation, continuing past failures")

	return cmd
}
