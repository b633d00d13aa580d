package signalhandler

import (
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
)

// ExitInterrupted is the exit status after SIGINT or SIGTERM
const ExitInterrupted = 130

// SetupHandler exits the process on SIGINT or SIGTERM. Moves are single
// renames, so an interrupted run never leaves a file half-moved; it only
// leaves the remaining duplicates unmoved. The returned func stops handling.
func SetupHandler(logger *slog.Logger) (stop func()) {
	sigChan := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			if logger != nil {
				logger.Warn("interrupted, exiting", slog.String("signal", sig.String()))
			}
			os.Exit(ExitInterrupted)
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigChan)
		close(done)
	}
}

// GetOptimalProcs returns how many directories to process at once: one per
// available CPU
func GetOptimalProcs() int {
	if n := runtime.NumCPU(); n > 1 {
		return n
	}
	return 1
}
