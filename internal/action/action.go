// Package action implements the behaviors applied to confirmed duplicate
// groups: printing them, recording them to a file, relocating redundant
// copies, or deleting them.
//
// Every action treats the first file of a group as the keeper. The move and
// delete actions never touch it, so at least one copy of each content
// always survives.
package action

import (
	"fmt"
	"io"

	"github.com/alex-buyanov/duplicate-finder/internal/engine"
)

// Action is one member of the closed set {list, file, move, delete},
// resolved once at startup.
type Action interface {
	Name() string
	Apply(res *engine.Result) error
}

// writeGroups renders duplicate groups in the report format shared by the
// list and file actions: the fingerprint followed by one tab-indented path
// per member, fingerprints in sorted order.
func writeGroups(w io.Writer, res *engine.Result) error {
	for _, sum := range res.Hashes() {
		if _, err := fmt.Fprintf(w, "%s:\n", sum); err != nil {
			return err
		}
		for _, f := range res.Groups[sum].Files {
			if _, err := fmt.Fprintf(w, "\t%s\n", f.Path); err != nil {
				return err
			}
		}
	}
	return nil
}
