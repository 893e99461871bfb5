package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alex-buyanov/duplicate-finder/internal/action"
)

func newMoveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "move FOLDER",
		Short: "Relocate redundant copies into a new subfolder of FOLDER",
		Long: `Relocate redundant copies into a new subfolder of FOLDER.

A fresh directory is created inside FOLDER with one subfolder per
fingerprint. Every group member except the kept one is moved there; the
kept file stays at its original location.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, opts, args[0], func(log *zap.Logger) action.Action {
				return action.NewMove(args[0], log)
			})
		},
	}
}
