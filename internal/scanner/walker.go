// Package scanner enumerates the regular files under a root directory.
//
// Symlinks are never followed: filepath.WalkDir does not descend into
// symlinked directories, and symlinks to files are filtered out together
// with every other non-regular entry. This avoids infinite recursion
// through directory cycles at the cost of ignoring linked trees.
package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/alex-buyanov/duplicate-finder/internal/entities"
	"go.uber.org/zap"
)

// Sentinel errors for invalid scan roots, checked with errors.Is.
var (
	ErrPathNotFound  = errors.New("path does not exist")
	ErrNotADirectory = errors.New("path is not a directory")
)

// Config defines the enumeration rules.
type Config struct {
	MinSize  int64    // skip files smaller than this many bytes
	Excludes []string // directory names to skip entirely
	Log      *zap.Logger
}

// FileScanner walks a directory tree and collects regular files.
type FileScanner struct {
	cfg        Config
	excludeMap map[string]struct{}
	log        *zap.Logger
}

// New creates a scanner with the given configuration.
func New(cfg Config) *FileScanner {
	exMap := make(map[string]struct{}, len(cfg.Excludes))
	for _, e := range cfg.Excludes {
		exMap[e] = struct{}{}
	}

	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}

	return &FileScanner{
		cfg:        cfg,
		excludeMap: exMap,
		log:        log,
	}
}

// Scan enumerates every regular file under root and returns them sorted by
// path, so grouping downstream is reproducible between runs. The root is
// validated up front: a missing root fails with ErrPathNotFound, a
// non-directory root with ErrNotADirectory. Entries that cannot be read
// during the walk are logged and skipped without aborting the scan.
func (s *FileScanner) Scan(root string) ([]*entities.FileInfo, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, root)
		}
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, root)
	}

	var files []*entities.FileInfo

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.log.Warn("skipping unreadable entry", zap.String("path", path), zap.Error(err))
			return nil
		}

		if d.IsDir() {
			if _, ok := s.excludeMap[d.Name()]; ok && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		// Symlinks, sockets, devices and the like are not candidates.
		if !d.Type().IsRegular() {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			s.log.Warn("skipping unreadable entry", zap.String("path", path), zap.Error(err))
			return nil
		}

		if fi.Size() < s.cfg.MinSize {
			return nil
		}

		files = append(files, &entities.FileInfo{
			Path:    path,
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
