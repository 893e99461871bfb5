package action

import (
	"io"
	"os"

	"github.com/alex-buyanov/duplicate-finder/internal/engine"
)

type listAction struct {
	out io.Writer
}

// NewList returns the action that prints duplicate groups to out.
// A nil writer means standard output.
func NewList(out io.Writer) Action {
	if out == nil {
		out = os.Stdout
	}
	return &listAction{out: out}
}

func (a *listAction) Name() string { return "list" }

func (a *listAction) Apply(res *engine.Result) error {
	return writeGroups(a.out, res)
}
