package cmd

import (
	"context"
	"fmt"

	snapshotrender "github.com/envsnap/envsnap/internal/adapters/render/snapshot"
	"github.com/envsnap/envsnap/internal/application"
	"github.com/spf13/cobra"
)

func newRestoreCmd(app *app) *cobra.Command {
	var (
		dryRun     bool
		perPackage bool
	)

	cmd := &cobra.Command{
		Use:   "restore NAME",
		Short: "Reinstall the package set of an archived snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.loadIntoStore(cmd.Context(), args[0]); err != nil {
				return err
			}

			opts := restoreOptions(dryRun, perPackage)

			var report application.RestoreReport
			run := func(ctx context.Context) error {
				var err error
				report, err = app.restore.Restore(ctx, args[0], opts)
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

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be installed without installing")
	cmd.Flags().BoolVar(&perPackage, "per-package", false, "install one package per pip invocation, continuing past failures")

	return cmd
}

func restoreOptions(dryRun, perPackage bool) application.RestoreOptions {
	opts := application.RestoreOptions{DryRun: dryRun, Strategy: application.StrategyBatch}
	if perPackage {
		opts.Strategy = application.StrategyPerPackage
	}
	return opts
}
