// Package engine classifies the files under a directory into groups of
// byte-identical duplicates using a two-stage fingerprint pipeline.
package engine

import (
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/alex-buyanov/duplicate-finder/internal/entities"
	"github.com/alex-buyanov/duplicate-finder/internal/hasher"
	"github.com/alex-buyanov/duplicate-finder/internal/scanner"
)

// ContentHasher is the fingerprint provider the classifier depends on.
// *hasher.Hasher is the production implementation; tests substitute a
// counting fake to observe which files get read in full.
type ContentHasher interface {
	PartialSum(path string) (string, error)
	FullSum(path string) (string, error)
}

// Options configures a classification run.
type Options struct {
	MinSize   int64
	Excludes  []string
	Keep      KeepPolicy
	Algorithm hasher.Algorithm // ignored when Hasher is set
	Workers   int              // hashing workers, defaults to GOMAXPROCS
	Progress  bool             // render per-phase progress bars
	Hasher    ContentHasher    // overrides Algorithm when non-nil
	Log       *zap.Logger
}

// Result holds the outcome of one classification run. Groups only contains
// entries with two or more members; files with unique content are absent.
type Result struct {
	Groups       map[string]*entities.FileGroup
	TotalScanned int64
	Skipped      int64
	Duration     time.Duration
}

// Hashes returns the group fingerprints in sorted order, giving actions a
// deterministic iteration order over the map.
func (r *Result) Hashes() []string {
	hashes := make([]string, 0, len(r.Groups))
	for h := range r.Groups {
		hashes = append(hashes, h)
	}
	sort.Strings(hashes)
	return hashes
}

// DuplicateCount is the number of redundant copies across all groups, i.e.
// every group member beyond the keeper.
func (r *Result) DuplicateCount() int64 {
	var n int64
	for _, g := range r.Groups {
		n += g.Count - 1
	}
	return n
}

// ReclaimableBytes is the disk space freed if every redundant copy were
// removed. Members of a group are byte-identical, so they share a size.
func (r *Result) ReclaimableBytes() int64 {
	var n int64
	for _, g := range r.Groups {
		n += g.Files[0].Size * (g.Count - 1)
	}
	return n
}

// Runner executes the classification pipeline.
type Runner struct {
	opts Options
	hash ContentHasher
	log  *zap.Logger
}

// New builds a Runner. When no ContentHasher is injected, one is
// constructed from opts.Algorithm (defaulting to xxhash).
func New(opts Options) (*Runner, error) {
	h := opts.Hasher
	if h == nil {
		algo := opts.Algorithm
		if algo == "" {
			algo = hasher.AlgoXXHash
		}
		var err error
		h, err = hasher.New(algo)
		if err != nil {
			return nil, err
		}
	}

	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}

	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	return &Runner{opts: opts, hash: h, log: log}, nil
}

// Run classifies the files under root.
//
// Pipeline: enumerate, partial-fingerprint every file, drop partial groups
// with a single member (those files cannot be duplicates and are never read
// in full), full-fingerprint the survivors, drop full groups with a single
// member, then order each remaining group by the keep policy. Files that
// fail to read at either stage are logged, counted in Result.Skipped and
// excluded from grouping; the run continues.
func (r *Runner) Run(root string) (*Result, error) {
	start := time.Now()

	sc := scanner.New(scanner.Config{
		MinSize:  r.opts.MinSize,
		Excludes: r.opts.Excludes,
		Log:      r.log,
	})
	files, err := sc.Scan(root)
	if err != nil {
		return nil, err
	}
	r.log.Debug("enumeration complete", zap.Int("files", len(files)))

	byPartial, skippedPartial := r.hashPhase(files, r.hash.PartialSum, "partial fingerprints")

	var candidates []*entities.FileInfo
	for _, members := range byPartial {
		if len(members) > 1 {
			candidates = append(candidates, members...)
		}
	}
	r.log.Debug("partial stage complete", zap.Int("candidates", len(candidates)))

	byFull, skippedFull := r.hashPhase(candidates, r.hash.FullSum, "full fingerprints")

	groups := make(map[string]*entities.FileGroup)
	for sum, members := range byFull {
		if len(members) < 2 {
			continue
		}
		g := &entities.FileGroup{}
		for _, f := range members {
			g.Add(f)
		}
		groups[sum] = g
	}

	sortGroups(groups, r.opts.Keep)

	return &Result{
		Groups:       groups,
		TotalScanned: int64(len(files)),
		Skipped:      skippedPartial + skippedFull,
		Duration:     time.Since(start),
	}, nil
}

// hashPhase fingerprints files with a bounded worker pool and groups them
// by the resulting sum. The grouping map is owned by the single consumer
// loop, so workers never touch it.
func (r *Runner) hashPhase(files []*entities.FileInfo, sum func(string) (string, error), phase string) (map[string][]*entities.FileInfo, int64) {
	type result struct {
		file *entities.FileInfo
		sum  string
		err  error
	}

	jobs := make(chan *entities.FileInfo, len(files))
	results := make(chan result, len(files))

	var wg sync.WaitGroup
	for i := 0; i < r.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range jobs {
				s, err := sum(f.Path)
				results <- result{f, s, err}
			}
		}()
	}

	for _, f := range files {
		jobs <- f
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	var bar *progressbar.ProgressBar
	if r.opts.Progress {
		bar = progressbar.Default(int64(len(files)), phase)
	}

	groups := make(map[string][]*entities.FileInfo)
	var skipped int64
	for res := range results {
		if bar != nil {
			_ = bar.Add(1)
		}
		if res.err != nil {
			r.log.Warn("skipping unreadable file", zap.String("path", res.file.Path), zap.Error(res.err))
			skipped++
			continue
		}
		groups[res.sum] = append(groups[res.sum], res.file)
	}
	if bar != nil {
		_ = bar.Finish()
	}

	return groups, skipped
}
