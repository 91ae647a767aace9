// ==============================================================================================
// FILE: cmd/apollo/main_test.go
// ==============================================================================================
// PURPOSE: Exercises the CLI driver's exit-code contract against real temp files, without
//          invoking the process boundary.
// ==============================================================================================

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "script.apollo")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRunFile_MissingFileReturnsExitCode2(t *testing.T) {
	code, err := runFile(filepath.Join(t.TempDir(), "does-not-exist.apollo"))
	assert.Equal(t, 2, code)
	assert.Error(t, err)
}

func TestRunFile_SuccessfulScriptReturnsZero(t *testing.T) {
	path := writeScript(t, "x = 1 + 2\nprint(x)\n")
	code, err := runFile(path)
	assert.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestRunFile_ParseErrorReturnsNonZero(t *testing.T) {
	path := writeScript(t, "if :\n    x = 1\n")
	code, err := runFile(path)
	assert.NoError(t, err)
	assert.NotEqual(t, 0, code)
}

func TestRunFile_RuntimeErrorReturnsNonZero(t *testing.T) {
	path := writeScript(t, "1 / 0\n")
	code, err := runFile(path)
	assert.NoError(t, err)
	assert.NotEqual(t, 0, code)
}

func TestRun_NoArgumentsStartsReplWithoutPanicking(t *testing.T) {
	// Redirect stdin to EOF so the REPL returns immediately instead of
	// blocking the test on a real terminal.
	r, w, err := os.Pipe()
	require.NoError(t, err)
	require.NoError(t, w.Close())
	origStdin := os.Stdin
	os.Stdin = r
	defer func() { os.Stdin = origStdin }()

	code := run(nil)
	assert.Equal(t, 0, code)
}

func TestRun_TooManyArgumentsReturnsExitCode2(t *testing.T) {
	code := run([]string{"one.apollo", "two.apollo"})
	assert.Equal(t, 2, code)
}
