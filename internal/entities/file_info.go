package entities

import (
	"time"
)

// FileInfo represents a regular file captured during enumeration.
// Size and ModTime are recorded at scan time; the path is never rewritten
// once the file has been enumerated.
type FileInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// FileGroup is an ordered set of files sharing the same content fingerprint.
// After classification the file at position 0 is the keeper.
type FileGroup struct {
	Count int64
	Files []*FileInfo
}

// Add appends a file to the group.
func (fg *FileGroup) Add(f *FileInfo) {
	fg.Files = append(fg.Files, f)
	fg.Count++
}
