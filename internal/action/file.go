package action

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alex-buyanov/duplicate-finder/internal/engine"
)

// DefaultReportFile is where the file action writes its report when no
// explicit path is given: results.txt in the current working directory.
const DefaultReportFile = "results.txt"

type fileAction struct {
	path string
}

// NewFile returns the action that writes the duplicate report to path,
// truncating any existing file. An empty path means DefaultReportFile.
func NewFile(path string) Action {
	if path == "" {
		path = DefaultReportFile
	}
	return &fileAction{path: path}
}

func (a *fileAction) Name() string { return "file" }

func (a *fileAction) Apply(res *engine.Result) error {
	f, err := os.Create(a.path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}

	if err := writeGroups(f, res); err != nil {
		f.Close()
		return fmt.Errorf("write report file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write report file: %w", err)
	}

	abs, err := filepath.Abs(a.path)
	if err != nil {
		abs = a.path
	}
	fmt.Printf("Results were saved in %s\n", abs)
	return nil
}
