package cli

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alex-buyanov/duplicate-finder/internal/action"
)

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list FOLDER",
		Short: "Print duplicate groups to standard output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, opts, args[0], func(*zap.Logger) action.Action {
				return action.NewList(os.Stdout)
			})
		},
	}
}
