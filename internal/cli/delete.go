package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alex-buyanov/duplicate-finder/internal/action"
)

func newDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete FOLDER",
		Short: "Permanently remove redundant copies, keeping one file per group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, opts, args[0], func(log *zap.Logger) action.Action {
				return action.NewDelete(log)
			})
		},
	}
}
