package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alex-buyanov/duplicate-finder/internal/action"
)

func newFileCmd(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "file FOLDER",
		Short: "Write duplicate groups to a results file",
		Long: `Write duplicate groups to a results file.

By default the report goes to results.txt in the current working directory,
overwriting any previous report.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, opts, args[0], func(*zap.Logger) action.Action {
				return action.NewFile(output)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", action.DefaultReportFile, "Report file to write")

	return cmd
}
