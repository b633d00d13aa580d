package report

import (
	"fmt"
	"io"
	"sync"

	"imagededup/types"

	"github.com/schollz/progressbar/v3"
)

// ProgressTracker renders a progress bar over directories as they finish
type ProgressTracker struct {
	bar      *progressbar.ProgressBar
	mu       sync.Mutex
	finished int
	failed   int
	moved    int
}

// NewProgressTracker draws a bar for totalDirs directories on w
func NewProgressTracker(w io.Writer, totalDirs int) *ProgressTracker {
	bar := progressbar.NewOptions(totalDirs,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Scanning"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	return &ProgressTracker{bar: bar}
}

// DirectoryStarted updates the description with the directory being scanned
func (p *ProgressTracker) DirectoryStarted(dir string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bar.Describe(fmt.Sprintf("Scanning %s", dir))
}

// DirectoryFinished advances the bar
func (p *ProgressTracker) DirectoryFinished(result types.RunResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.finished++
	p.moved += result.Moved
	if result.Failed() {
		p.failed++
	}
	_ = p.bar.Add(1)
}

// Stop finishes the bar
func (p *ProgressTracker) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.bar.Finish()
}

// Counts returns how many directories finished, failed, and how many files moved
func (p *ProgressTracker) Counts() (finished, failed, moved int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.finished, p.failed, p.moved
}
