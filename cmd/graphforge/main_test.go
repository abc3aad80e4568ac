package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_HelpExitsCleanly(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}

	// -h prints usage and tells run to stop without an error.
	err := run(out, []string{"-h"})

	require.NoError(t, err)
	require.Contains(t, out.String(), "Usage:")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}

	// An unknown flag surfaces straight from the flag package.
	err := run(out, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err)
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_RecoversStartupPanic(t *testing.T) {
	t.Parallel()

	// A manifest directory with broken HCL makes app construction panic;
	// run must hand that back as an error instead of crashing.
	dir := t.TempDir()
	bad := filepath.Join(dir, "types.hcl")
	require.NoError(t, os.WriteFile(bad, []byte("this is { not hcl"), 0o644))

	out := &bytes.Buffer{}
	err := run(out, []string{"--types-path", dir, "TestDoc"})

	require.Error(t, err)
	require.Contains(t, err.Error(), "application startup panicked")
	require.Contains(t, err.Error(), "failed to load type manifests")
}
