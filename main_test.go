package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"imagededup/testsupport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand(&out, &errOut)
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		code = exitCode(err, &errOut)
	}
	return out.String(), errOut.String(), code
}

func TestNoDirectoriesIsUsageError(t *testing.T) {
	stdout, stderr, code := execute(t)

	assert.Equal(t, exitUsage, code)
	assert.Empty(t, stdout)
	assert.Equal(t, missingArgument+"\n", stderr)
}

func TestMovesDuplicatesAndReportsCleanDirectories(t *testing.T) {
	root := t.TempDir()
	dupes := filepath.Join(root, "dupes")
	x := testsupport.WritePNG(t, filepath.Join(dupes, "x.png"), testsupport.Gradient())
	testsupport.CopyFile(t, x, filepath.Join(dupes, "y.png"))

	clean := filepath.Join(root, "clean")
	testsupport.WritePNG(t, filepath.Join(clean, "a.png"), testsupport.Flat())
	testsupport.WritePNG(t, filepath.Join(clean, "b.png"), testsupport.Banded())

	stdout, _, code := execute(t, dupes, clean)

	assert.Zero(t, code)
	assert.Equal(t, "No duplicates found in \""+clean+"\"\n", stdout)

	_, err := os.Stat(filepath.Join(dupes, "duplicates", "x.png"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dupes, "duplicates", "y.png"))
	assert.NoError(t, err)
}

func TestDirectoryFailureDoesNotStopOthers(t *testing.T) {
	root := t.TempDir()
	missing := filepath.Join(root, "missing")
	dupes := filepath.Join(root, "dupes")
	x := testsupport.WritePNG(t, filepath.Join(dupes, "x.png"), testsupport.Gradient())
	testsupport.CopyFile(t, x, filepath.Join(dupes, "y.png"))

	_, stderr, code := execute(t, missing, dupes)

	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "directory failed")
	assert.Contains(t, stderr, missing)

	entries, err := os.ReadDir(filepath.Join(dupes, "duplicates"))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSummaryFlagPrintsTable(t *testing.T) {
	dir := t.TempDir()
	testsupport.WritePNG(t, filepath.Join(dir, "a.png"), testsupport.Flat())

	stdout, _, code := execute(t, "--summary", dir)

	assert.Zero(t, code)
	assert.Contains(t, stdout, "No duplicates found")
	assert.Contains(t, stdout, "MOVE FAILURES")
}

func TestInvalidFlagValueIsUsageError(t *testing.T) {
	_, stderr, code := execute(t, "--hash-alg=wavelet", t.TempDir())

	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "wavelet")
}
