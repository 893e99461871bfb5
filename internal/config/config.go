// Package config loads optional run defaults from an INI file. The file
// only supplies defaults: flags given explicitly on the command line always
// win, and no state is ever written back.
package config

import (
	"fmt"

	"github.com/go-ini/ini"
)

// File holds the settings an INI file may provide. Zero values mean the
// file did not set the key.
//
// Recognized layout:
//
//	[scan]
//	min_size = 1024
//	exclude  = .git, node_modules
//
//	[hash]
//	algorithm = blake3
//	workers   = 8
//
//	[keep]
//	policy = oldest
type File struct {
	MinSize  int64
	Excludes []string
	Algo     string
	Workers  int
	Keep     string
}

// Load parses the INI file at path.
func Load(path string) (*File, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config file: %w", err)
	}

	scan := cfg.Section("scan")
	hash := cfg.Section("hash")
	keep := cfg.Section("keep")

	return &File{
		MinSize:  scan.Key("min_size").MustInt64(0),
		Excludes: scan.Key("exclude").Strings(","),
		Algo:     hash.Key("algorithm").String(),
		Workers:  hash.Key("workers").MustInt(0),
		Keep:     keep.Key("policy").String(),
	}, nil
}
