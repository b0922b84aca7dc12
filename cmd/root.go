package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "envsnap",
		Short:         "Capture and restore Python environments",
		Long:          "envsnap snapshots the installed package set of a Python environment, restores it elsewhere, and can embed the snapshot into a Jupyter notebook so the notebook carries its own environment.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newCaptureCmd(app),
		newRestoreCmd(app),
		newSnapshotCmd(app),
		newNotebookCmd(app),
	)

	return rootCmd
}
