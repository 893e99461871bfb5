// Package cli wires the duplicate finder into a cobra command tree with
// one subcommand per action: list, file, move and delete.
package cli

import (
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/alex-buyanov/duplicate-finder/internal/action"
	"github.com/alex-buyanov/duplicate-finder/internal/config"
	"github.com/alex-buyanov/duplicate-finder/internal/engine"
	"github.com/alex-buyanov/duplicate-finder/internal/hasher"
	"github.com/alex-buyanov/duplicate-finder/internal/utils"
	"github.com/alex-buyanov/duplicate-finder/version"
)

// options carries the persistent flag values shared by all subcommands.
type options struct {
	algo       string
	keep       string
	minSize    int64
	excludes   []string
	workers    int
	progress   bool
	verbose    bool
	configPath string
}

// NewRootCmd creates the root command and its action subcommands.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "dupfinder",
		Short: "Find duplicate files and list, record, move or delete them",
		Long: `dupfinder recursively scans a folder for files with byte-identical content.

Candidates are clustered by a fingerprint of their first 4KB, so most files
are never read in full; only files whose prefix fingerprint is shared get a
full-content fingerprint to confirm they really are duplicates.

Each subcommand applies one action to the confirmed groups:
  list    print the groups to standard output
  file    write the same report to results.txt
  move    relocate redundant copies into a new subfolder of FOLDER
  delete  remove redundant copies, always keeping one file per group`,
		Version:       version.Get(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.algo, "algo", string(hasher.AlgoXXHash), "Fingerprint algorithm: xxhash, blake3, sha3-256")
	pf.StringVar(&opts.keep, "keep", "alpha", "Which copy to keep: alpha, shortest, longest, oldest, newest")
	pf.Int64Var(&opts.minSize, "min-size", 0, "Ignore files smaller than this many bytes")
	pf.StringSliceVar(&opts.excludes, "exclude", nil, "Directory names to skip during enumeration")
	pf.IntVar(&opts.workers, "workers", runtime.NumCPU(), "Number of concurrent hashing workers")
	pf.BoolVar(&opts.progress, "progress", false, "Show progress bars while hashing")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVar(&opts.configPath, "config", "", "Path to an INI file with default settings")

	rootCmd.AddCommand(
		newListCmd(opts),
		newFileCmd(opts),
		newMoveCmd(opts),
		newDeleteCmd(opts),
	)

	return rootCmd
}

// applyConfig overlays INI defaults onto flags the user did not set.
func applyConfig(cmd *cobra.Command, opts *options) error {
	if opts.configPath == "" {
		return nil
	}

	cf, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	fl := cmd.Flags()
	if !fl.Changed("min-size") && cf.MinSize > 0 {
		opts.minSize = cf.MinSize
	}
	if !fl.Changed("exclude") && len(cf.Excludes) > 0 {
		opts.excludes = cf.Excludes
	}
	if !fl.Changed("algo") && cf.Algo != "" {
		opts.algo = cf.Algo
	}
	if !fl.Changed("workers") && cf.Workers > 0 {
		opts.workers = cf.Workers
	}
	if !fl.Changed("keep") && cf.Keep != "" {
		opts.keep = cf.Keep
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	return cfg.Build()
}

// runAction executes the full pipeline for one subcommand: resolve
// settings, classify folder, report the summary and apply the action.
func runAction(cmd *cobra.Command, opts *options, folder string, makeAction func(log *zap.Logger) action.Action) error {
	if err := applyConfig(cmd, opts); err != nil {
		return err
	}

	log, err := newLogger(opts.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	algo, err := hasher.ParseAlgorithm(opts.algo)
	if err != nil {
		return err
	}
	keep, err := engine.ParseKeepPolicy(opts.keep)
	if err != nil {
		return err
	}

	runner, err := engine.New(engine.Options{
		MinSize:   opts.minSize,
		Excludes:  opts.excludes,
		Keep:      keep,
		Algorithm: algo,
		Workers:   opts.workers,
		Progress:  opts.progress,
		Log:       log,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Scanning %s for duplicates. It may take a while...\n", folder)

	res, err := runner.Run(folder)
	if err != nil {
		return err
	}

	fmt.Printf("Scanned %d files in %s", res.TotalScanned, res.Duration.Round(time.Millisecond))
	if res.Skipped > 0 {
		fmt.Printf(" (%d unreadable files skipped)", res.Skipped)
	}
	fmt.Println(".")

	if len(res.Groups) == 0 {
		fmt.Println("No duplicates were found. Have a nice day.")
		return nil
	}
	fmt.Printf("Found %d groups of duplicated content, %s reclaimable.\n",
		len(res.Groups), utils.ByteCountDecimal(res.ReclaimableBytes()))

	return makeAction(log).Apply(res)
}
