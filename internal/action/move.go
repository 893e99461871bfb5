package action

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alex-buyanov/duplicate-finder/internal/engine"
	"github.com/alex-buyanov/duplicate-finder/internal/utils"
)

type moveAction struct {
	root string
	log  *zap.Logger
}

// NewMove returns the action that relocates every redundant copy into a
// fresh subdirectory of root, one subfolder per fingerprint. The keeper of
// each group stays where it is.
func NewMove(root string, log *zap.Logger) Action {
	if log == nil {
		log = zap.NewNop()
	}
	return &moveAction{root: root, log: log}
}

func (a *moveAction) Name() string { return "move" }

func (a *moveAction) Apply(res *engine.Result) error {
	if len(res.Groups) == 0 {
		return nil
	}

	// Timestamp plus a uuid fragment keeps the name from colliding with
	// anything already inside the scanned tree.
	name := fmt.Sprintf("duplicates_%s_%s", time.Now().Format("20060102_150405"), uuid.NewString()[:8])
	dest := filepath.Join(a.root, name)
	if err := os.Mkdir(dest, 0o755); err != nil {
		return fmt.Errorf("create destination directory: %w", err)
	}

	var moved, failed int
	var movedBytes int64

	for _, sum := range res.Hashes() {
		group := res.Groups[sum]

		sub := filepath.Join(dest, sum)
		if err := os.Mkdir(sub, 0o755); err != nil {
			a.log.Warn("failed to create group directory", zap.String("path", sub), zap.Error(err))
			failed += len(group.Files) - 1
			continue
		}

		for _, f := range group.Files[1:] {
			if err := moveFile(f.Path, freeTarget(sub, filepath.Base(f.Path))); err != nil {
				a.log.Warn("failed to move file", zap.String("path", f.Path), zap.Error(err))
				failed++
				continue
			}
			moved++
			movedBytes += f.Size
		}
	}

	fmt.Printf("Moved %d files (%s) into %s. Now, sort them out by hand.\n", moved, utils.ByteCountDecimal(movedBytes), dest)
	if failed > 0 {
		fmt.Printf("%d files could not be moved, see warnings above.\n", failed)
	}
	return nil
}

// freeTarget picks a destination path inside dir that does not exist yet.
// Members of one group can share a base name when they come from different
// directories.
func freeTarget(dir, base string) string {
	target := filepath.Join(dir, base)
	for i := 1; ; i++ {
		if _, err := os.Lstat(target); os.IsNotExist(err) {
			return target
		}
		target = filepath.Join(dir, fmt.Sprintf("%d_%s", i, base))
	}
}

// moveFile renames src to dst, falling back to copy-and-remove when the
// destination lives on another filesystem.
func moveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err != nil && errors.Is(err, syscall.EXDEV) {
		return moveCrossDevice(src, dst)
	}
	return err
}

func moveCrossDevice(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}

	return os.Remove(src)
}
