package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syou6162/go-patch/internal/config"
)

func TestParseArgs_LongAndShortForms(t *testing.T) {
	cfg := config.Default()
	positional, err := parseArgs([]string{"-R", "--backup", "-p2", "--suffix", ".bak", "target.txt"}, &cfg)
	require.NoError(t, err)
	assert.Equal(t, "target.txt", positional)
	assert.True(t, cfg.Reverse)
	assert.True(t, cfg.Backup)
	assert.Equal(t, 2, cfg.Strip)
	assert.True(t, cfg.StripIsSet)
	assert.Equal(t, ".bak", cfg.Suffix)
}

func TestParseArgs_InlineLongValue(t *testing.T) {
	cfg := config.Default()
	_, err := parseArgs([]string{"--read-only=fail"}, &cfg)
	require.NoError(t, err)
	assert.Equal(t, config.ReadOnlyFail, cfg.ReadOnly)
}

func TestParseArgs_UnknownOption(t *testing.T) {
	cfg := config.Default()
	_, err := parseArgs([]string{"--nonexistent"}, &cfg)
	require.Error(t, err)
	uae, ok := err.(*unknownArgError)
	require.True(t, ok)
	assert.Equal(t, "--nonexistent", uae.arg)
}

func TestParseArgs_InvalidReadOnlyValue(t *testing.T) {
	cfg := config.Default()
	_, err := parseArgs([]string{"--read-only", "bogus"}, &cfg)
	require.Error(t, err)
}

func TestRun_Version(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	code := run([]string{"--version"}, os.Stdin, w, os.Stderr)
	w.Close()
	assert.Equal(t, 0, code)
	buf := make([]byte, len(versionText))
	n, _ := r.Read(buf)
	assert.Equal(t, versionText, string(buf[:n]))
}

func TestRun_OutputDashRoutesDiagnosticToStderr(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "to_patch"), []byte("int main()\n{\n}\n"), 0o644))

	patch := "--- to_patch\n+++ to_patch\n@@ -1,3 +1,4 @@\n int main()\n {\n+\treturn 0;\n }\n"
	stdinR, stdinW, err := os.Pipe()
	require.NoError(t, err)
	_, err = stdinW.WriteString(patch)
	require.NoError(t, err)
	require.NoError(t, stdinW.Close())

	outR, outW, err := os.Pipe()
	require.NoError(t, err)
	errR, errW, err := os.Pipe()
	require.NoError(t, err)

	code := run([]string{"-d", dir, "-o", "-"}, stdinR, outW, errW)
	require.NoError(t, outW.Close())
	require.NoError(t, errW.Close())

	assert.Equal(t, 0, code)

	outBuf, _ := io.ReadAll(outR)
	errBuf, _ := io.ReadAll(errR)
	assert.Equal(t, "int main()\n{\n\treturn 0;\n}\n", string(outBuf))
	assert.Equal(t, "patching file - (read from to_patch)\n", string(errBuf))

	got, err := os.ReadFile(filepath.Join(dir, "to_patch"))
	require.NoError(t, err)
	assert.Equal(t, "int main()\n{\n}\n", string(got))
}

func TestRun_UnknownArgumentExitsTwo(t *testing.T) {
	_, w, err := os.Pipe()
	require.NoError(t, err)
	defer w.Close()
	_, errW, err := os.Pipe()
	require.NoError(t, err)
	defer errW.Close()

	code := run([]string{"--bogus-flag"}, os.Stdin, w, errW)
	assert.Equal(t, 2, code)
}
