package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alex-buyanov/duplicate-finder/internal/entities"
)

// KeepPolicy decides which file in a duplicate group is kept in place when
// the rest are moved or deleted.
type KeepPolicy int

const (
	KeepAlpha        KeepPolicy = iota // lexicographically smallest path
	KeepShortestPath                   // shortest path
	KeepLongestPath                    // longest path
	KeepOldest                         // earliest modification time
	KeepNewest                         // latest modification time
)

// ParseKeepPolicy resolves a user-supplied policy name.
func ParseKeepPolicy(name string) (KeepPolicy, error) {
	switch strings.ToLower(name) {
	case "alpha":
		return KeepAlpha, nil
	case "shortest":
		return KeepShortestPath, nil
	case "longest":
		return KeepLongestPath, nil
	case "oldest":
		return KeepOldest, nil
	case "newest":
		return KeepNewest, nil
	default:
		return 0, fmt.Errorf("unknown keep policy %q (expected alpha, shortest, longest, oldest or newest)", name)
	}
}

// sortGroups orders the files inside each group so that position [0] holds
// the keeper. Every policy terminates in the lexicographic tie-break, which
// makes the ordering total and runs reproducible.
func sortGroups(groups map[string]*entities.FileGroup, policy KeepPolicy) {
	for _, group := range groups {
		if group.Count < 2 {
			continue
		}

		sort.Slice(group.Files, func(i, j int) bool {
			f1 := group.Files[i]
			f2 := group.Files[j]

			switch policy {
			case KeepShortestPath:
				if len(f1.Path) != len(f2.Path) {
					return len(f1.Path) < len(f2.Path)
				}

			case KeepLongestPath:
				if len(f1.Path) != len(f2.Path) {
					return len(f1.Path) > len(f2.Path)
				}

			case KeepOldest:
				if !f1.ModTime.Equal(f2.ModTime) {
					return f1.ModTime.Before(f2.ModTime)
				}

			case KeepNewest:
				if !f1.ModTime.Equal(f2.ModTime) {
					return f1.ModTime.After(f2.ModTime)
				}
			}

			// Tie-break, and the whole rule for KeepAlpha.
			return f1.Path < f2.Path
		})
	}
}
