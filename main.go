package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"imagededup/config"
	"imagededup/duplicates"
	"imagededup/imageprocessor"
	"imagededup/logging"
	"imagededup/report"
	"imagededup/runner"
	"imagededup/scanner"
	"imagededup/signalhandler"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const (
	exitFailure = 1
	exitUsage   = 2
)

const missingArgument = "Missing argument: directory. Try '--help' for more info."

// exitError carries a process exit code. Errors that were already logged
// are marked quiet so they are not printed twice.
type exitError struct {
	code  int
	err   error
	quiet bool
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func main() {
	cmd := newRootCommand(os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		os.Exit(exitCode(err, os.Stderr))
	}
}

func exitCode(err error, stderr io.Writer) int {
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if !exitErr.quiet && exitErr.err != nil {
			fmt.Fprintln(stderr, exitErr.err)
		}
		return exitErr.code
	}
	fmt.Fprintln(stderr, err)
	return exitUsage
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "imagededup [flags] DIR...",
		Short: "Move visually duplicate images into a duplicates subdirectory",
		Long: `imagededup checks each directory independently for images that look the
same, using a perceptual hash rather than comparing bytes. Every image that
has at least one look-alike in the same directory is moved into DIR/duplicates
for review. Only files directly inside DIR with a .png, .jpeg, .jpg or .gif
extension (lowercase) are considered.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDedup(cmd, args, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func runDedup(cmd *cobra.Command, dirs []string, stdout, stderr io.Writer) error {
	if len(dirs) == 0 {
		fmt.Fprintln(stderr, missingArgument)
		return &exitError{code: exitUsage, err: runner.ErrNoDirectories, quiet: true}
	}

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return &exitError{code: exitUsage, err: err}
	}

	logOpts := cfg.LoggingOptions()
	logOpts.Output = stderr
	logger, closeLog, err := logging.SetupLogger(logOpts)
	if err != nil {
		return &exitError{code: exitUsage, err: err}
	}
	defer closeLog()

	stop := signalhandler.SetupHandler(logger)
	defer stop()

	hasher, err := imageprocessor.NewHasher(cfg.HashConfig())
	if err != nil {
		return &exitError{code: exitUsage, err: err}
	}
	loaders := imageprocessor.NewLoaderRegistry(imageprocessor.LoaderOptions{AutoOrient: cfg.AutoOrient})

	opts := []runner.Option{
		runner.WithWorkers(cfg.Workers),
		runner.WithLogger(logger),
	}
	var tracker *report.ProgressTracker
	if cfg.Progress && isTerminal(stderr) {
		tracker = report.NewProgressTracker(stderr, len(dirs))
		opts = append(opts, runner.WithObserver(tracker))
	}

	r := runner.New(
		scanner.NewExtractor(loaders, hasher, logger),
		duplicates.NewRelocator(logger),
		opts...,
	)

	logger.Debug("starting run", logging.Int("directories", len(dirs)), logging.Int("workers", cfg.Workers),
		logging.String("hash_alg", string(cfg.HashAlg)))

	rep, err := r.Run(dirs)
	if tracker != nil {
		tracker.Stop()
	}
	if err != nil {
		return &exitError{code: exitUsage, err: err}
	}

	report.PrintNotices(stdout, rep.Results)
	if cfg.Summary {
		fmt.Fprintln(stdout, report.RenderSummary(rep.Results))
	}

	if failed := rep.Failed(); len(failed) > 0 {
		return &exitError{code: exitFailure, err: rep.Err(), quiet: true}
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
