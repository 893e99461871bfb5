package action

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/alex-buyanov/duplicate-finder/internal/engine"
	"github.com/alex-buyanov/duplicate-finder/internal/utils"
)

type deleteAction struct {
	log *zap.Logger
}

// NewDelete returns the action that permanently removes every redundant
// copy. The keeper of each group is never deleted.
func NewDelete(log *zap.Logger) Action {
	if log == nil {
		log = zap.NewNop()
	}
	return &deleteAction{log: log}
}

func (a *deleteAction) Name() string { return "delete" }

func (a *deleteAction) Apply(res *engine.Result) error {
	var removed, failed int
	var freed int64

	for _, sum := range res.Hashes() {
		for _, f := range res.Groups[sum].Files[1:] {
			if err := os.Remove(f.Path); err != nil {
				a.log.Warn("failed to delete file", zap.String("path", f.Path), zap.Error(err))
				failed++
				continue
			}
			a.log.Debug("deleted file", zap.String("path", f.Path))
			removed++
			freed += f.Size
		}
	}

	fmt.Printf("Deleted %d files, freed %s. Enjoy some free space.\n", removed, utils.ByteCountDecimal(freed))
	if failed > 0 {
		fmt.Printf("%d files could not be deleted, see warnings above.\n", failed)
	}
	return nil
}
