package cmd

import (
	"fmt"
	"strings"

	snapshotrender "github.com/envsnap/envsnap/internal/adapters/render/snapshot"
	"github.com/spf13/cobra"
)

func newCaptureCmd(app *app) *cobra.Command {
	var (
		metaPairs []string
		noSave    bool
	)

	cmd := &cobra.Command{
		Use:   "capture NAME",
		Short: "Capture the current environment as a named snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			metadata, err := parseMetadata(metaPairs)
			if err != nil {
				return err
			}

			result, err := app.capture.Capture(cmd.Context(), args[0], metadata)
			if err != nil {
				return err
			}

			if !noSave {
				if err := app.archive.Save(cmd.Context(), result.Snapshot); err != nil {
					return fmt.Errorf("save snapshot to archive: %w", err)
				}
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), snapshotrender.RenderCapture(result))
			return err
		},
	}

	cmd.Flags().StringArrayVar(&metaPairs, "meta", nil, "additional metadata as key=value (repeatable)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "keep the snapshot in this process only, do not archive it")

	return cmd
}

func parseMetadata(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	metadata := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid metadata pair %q, expected key=value", pair)
		}
		metadata[key] = value
	}

	return metadata, nil
}
