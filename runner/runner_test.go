package runner

import (
	"errors"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"imagededup/duplicates"
	"imagededup/imageprocessor"
	"imagededup/scanner"
	"imagededup/testsupport"
	"imagededup/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunner(t *testing.T, opts ...Option) *Runner {
	t.Helper()
	hasher, err := imageprocessor.NewHasher(imageprocessor.DefaultHashConfig())
	require.NoError(t, err)
	extractor := scanner.NewExtractor(imageprocessor.NewLoaderRegistry(imageprocessor.LoaderOptions{}), hasher, nil)
	return New(extractor, duplicates.NewRelocator(nil), opts...)
}

func exists(t *testing.T, path string) bool {
	t.Helper()
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false
	}
	require.NoError(t, err)
	return true
}

func TestRunRejectsEmptyInput(t *testing.T) {
	report, err := newRunner(t).Run(nil)
	assert.ErrorIs(t, err, ErrNoDirectories)
	assert.Empty(t, report.Results)
}

func TestRunIsolatesDirectoryFailures(t *testing.T) {
	root := t.TempDir()
	d1 := filepath.Join(root, "unreadable")
	d2 := filepath.Join(root, "photos")
	x := testsupport.WritePNG(t, filepath.Join(d2, "x.png"), testsupport.Gradient())
	y := testsupport.CopyFile(t, x, filepath.Join(d2, "y.png"))

	report, err := newRunner(t).Run([]string{d1, d2})
	require.NoError(t, err)
	require.Len(t, report.Results, 2)

	failed := report.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, d1, failed[0].Dir)
	assert.Error(t, report.Err())

	ok := report.Results[1]
	assert.Equal(t, d2, ok.Dir)
	assert.NoError(t, ok.Err)
	assert.Equal(t, 2, ok.Moved)
	assert.Equal(t, 1, ok.DuplicateSets)
	assert.False(t, ok.NoDuplicates)

	quarantine := filepath.Join(d2, "duplicates")
	assert.True(t, exists(t, filepath.Join(quarantine, "x.png")))
	assert.True(t, exists(t, filepath.Join(quarantine, "y.png")))
	assert.False(t, exists(t, x))
	assert.False(t, exists(t, y))
}

func TestRunNoDuplicates(t *testing.T) {
	dir := t.TempDir()
	testsupport.WritePNG(t, filepath.Join(dir, "gradient.png"), testsupport.Gradient())
	testsupport.WritePNG(t, filepath.Join(dir, "flat.png"), testsupport.Flat())
	testsupport.WritePNG(t, filepath.Join(dir, "banded.png"), testsupport.Banded())

	report, err := newRunner(t).Run([]string{dir})
	require.NoError(t, err)
	require.Len(t, report.Results, 1)

	res := report.Results[0]
	assert.NoError(t, res.Err)
	assert.True(t, res.NoDuplicates)
	assert.Equal(t, 3, res.Candidates)
	assert.Equal(t, 3, res.Hashed)
	assert.Zero(t, res.Moved)
	assert.False(t, exists(t, filepath.Join(dir, "duplicates")))
	assert.NoError(t, report.Err())
}

func TestRunSkipsUndecodableFilesWithoutFailing(t *testing.T) {
	dir := t.TempDir()
	x := testsupport.WritePNG(t, filepath.Join(dir, "x.png"), testsupport.Banded())
	testsupport.CopyFile(t, x, filepath.Join(dir, "y.png"))
	testsupport.WriteFile(t, filepath.Join(dir, "broken.jpg"), []byte("nope"))
	testsupport.WriteFile(t, filepath.Join(dir, "notes.txt"), []byte("ignored"))

	report, err := newRunner(t).Run([]string{dir})
	require.NoError(t, err)

	res := report.Results[0]
	assert.NoError(t, res.Err)
	assert.Equal(t, 3, res.Candidates)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 2, res.Moved)
	assert.True(t, exists(t, filepath.Join(dir, "broken.jpg")))
	assert.True(t, exists(t, filepath.Join(dir, "notes.txt")))
}

func TestRunPartitionsHashedFiles(t *testing.T) {
	dir := t.TempDir()
	g := testsupport.WritePNG(t, filepath.Join(dir, "g1.png"), testsupport.Gradient())
	testsupport.CopyFile(t, g, filepath.Join(dir, "g2.png"))
	testsupport.CopyFile(t, g, filepath.Join(dir, "g3.png"))
	testsupport.WritePNG(t, filepath.Join(dir, "flat.png"), testsupport.Flat())

	report, err := newRunner(t, WithWorkers(1)).Run([]string{dir})
	require.NoError(t, err)

	res := report.Results[0]
	assert.Equal(t, 4, res.Hashed)
	assert.Equal(t, 3, res.Moved)
	assert.True(t, exists(t, filepath.Join(dir, "flat.png")))

	entries, err := os.ReadDir(filepath.Join(dir, "duplicates"))
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestRunManyDirectoriesInParallel(t *testing.T) {
	root := t.TempDir()
	var dirs []string
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		dir := filepath.Join(root, name)
		x := testsupport.WritePNG(t, filepath.Join(dir, "x.png"), testsupport.Gradient())
		testsupport.CopyFile(t, x, filepath.Join(dir, "y.png"))
		dirs = append(dirs, dir)
	}

	report, err := newRunner(t, WithWorkers(3)).Run(dirs)
	require.NoError(t, err)
	require.Len(t, report.Results, len(dirs))
	for i, res := range report.Results {
		assert.Equal(t, dirs[i], res.Dir)
		assert.Equal(t, 2, res.Moved, res.Dir)
	}
	assert.Equal(t, 12, report.Moved())
}

type recordingObserver struct {
	mu       sync.Mutex
	started  []string
	finished []types.RunResult
}

func (o *recordingObserver) DirectoryStarted(dir string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started = append(o.started, dir)
}

func (o *recordingObserver) DirectoryFinished(result types.RunResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.finished = append(o.finished, result)
}

func TestRunNotifiesObserver(t *testing.T) {
	root := t.TempDir()
	ok := filepath.Join(root, "ok")
	require.NoError(t, os.Mkdir(ok, 0o755))
	missing := filepath.Join(root, "missing")

	observer := &recordingObserver{}
	_, err := newRunner(t, WithObserver(observer)).Run([]string{ok, missing})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{ok, missing}, observer.started)
	require.Len(t, observer.finished, 2)
	for _, res := range observer.finished {
		assert.Equal(t, res.Dir == missing, res.Failed(), res.Dir)
	}
}

type panickingHasher struct{}

func (panickingHasher) Hash(image.Image) ([]byte, error) {
	panic("hasher exploded")
}

func TestRunRecoversPanicsPerDirectory(t *testing.T) {
	root := t.TempDir()
	bad := filepath.Join(root, "bad")
	testsupport.WritePNG(t, filepath.Join(bad, "x.png"), testsupport.Flat())
	empty := filepath.Join(root, "empty")
	require.NoError(t, os.Mkdir(empty, 0o755))

	extractor := scanner.NewExtractor(imageprocessor.NewLoaderRegistry(imageprocessor.LoaderOptions{}), panickingHasher{}, nil)
	r := New(extractor, duplicates.NewRelocator(nil))

	report, err := r.Run([]string{bad, empty})
	require.NoError(t, err)

	require.Len(t, report.Failed(), 1)
	assert.Equal(t, bad, report.Failed()[0].Dir)
	assert.NoError(t, report.Results[1].Err)
	assert.True(t, report.Results[1].NoDuplicates)
}

func TestRunReportsQuarantineFailure(t *testing.T) {
	dir := t.TempDir()
	x := testsupport.WritePNG(t, filepath.Join(dir, "x.png"), testsupport.Gradient())
	testsupport.CopyFile(t, x, filepath.Join(dir, "y.png"))
	testsupport.WriteFile(t, filepath.Join(dir, "duplicates"), []byte("blocking file"))

	report, err := newRunner(t).Run([]string{dir})
	require.NoError(t, err)

	res := report.Results[0]
	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, duplicates.ErrQuarantine)
	assert.True(t, exists(t, x))
}
