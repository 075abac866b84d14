package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/vidsift/internal/config"
	"github.com/five82/vidsift/internal/errors"
	"github.com/five82/vidsift/internal/reporter"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "vidsift version 0.1.0\n", out)
}

func TestCleanMissingPolicyIsFatal(t *testing.T) {
	chdir(t, t.TempDir())

	input := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(input, "squat"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(input, "squat", "a.mp4"), []byte("x"), 0644))
	output := filepath.Join(t.TempDir(), "cleaned")

	_, err := run(t, "clean", "-i", input, "-o", output, "--motion-policy", "missing.json")
	require.Error(t, err)
	assert.True(t, errors.IsPolicyMissing(err))
	assert.NoDirExists(t, output)
}

func TestCleanMissingInput(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := run(t, "clean", "-i", filepath.Join(t.TempDir(), "nope"), "-o", t.TempDir(), "--no-log")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindPath))
}

func TestCleanInvalidFlags(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := run(t, "clean", "--frames", "0")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidSampling)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("VIDSIFT_SAMPLING__STRIDE", "0")

	input := t.TempDir()

	_, err := run(t, "clean", "-i", input, "--no-log")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidSampling)

	// With the flag set validation passes and the missing policy is reported.
	_, err = run(t, "clean", "-i", input, "--no-log", "--stride", "5", "--motion-policy", "none.json")
	require.Error(t, err)
	assert.True(t, errors.IsPolicyMissing(err))
}

func TestCleanOutputEqualsInputIsFatal(t *testing.T) {
	chdir(t, t.TempDir())

	input := t.TempDir()
	video := filepath.Join(input, "squat", "a.mp4")
	require.NoError(t, os.MkdirAll(filepath.Dir(video), 0755))
	require.NoError(t, os.WriteFile(video, []byte("video"), 0644))

	_, err := run(t, "clean", "-i", input, "-o", input, "--no-log", "--motion-policy", "missing.json")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindPath))

	data, err := os.ReadFile(video)
	require.NoError(t, err)
	assert.Equal(t, "video", string(data))
}

func TestBuildReporter(t *testing.T) {
	assert.IsType(t, &reporter.TerminalReporter{}, buildReporter(false, false))
	assert.IsType(t, &reporter.CompositeReporter{}, buildReporter(true, false))
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
