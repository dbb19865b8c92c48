package driver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syou6162/go-patch/internal/config"
	"github.com/syou6162/go-patch/internal/fsys"
)

func TestRun_BasicModify(t *testing.T) {
	patch := "--- to_patch\n+++ to_patch\n@@ -1,3 +1,4 @@\n int main()\n {\n+\treturn 0;\n }\n"
	fs := fsys.NewMock().WithFile("to_patch", []byte("int main()\n{\n}\n"), 0o644)
	var stdout strings.Builder

	res := Run([]byte(patch), config.Default(), fs, nil, &stdout, &stdout)
	assert.Equal(t, 0, res.ExitCode)
	assert.Empty(t, res.FatalMessage)
	assert.Contains(t, stdout.String(), "patching file to_patch\n")

	got, ok := fs.ReadFileString("to_patch")
	require.True(t, ok)
	assert.Equal(t, "int main()\n{\n\treturn 0;\n}\n", got)
}

func TestRun_EdFlagFatal(t *testing.T) {
	cfg := config.Default()
	cfg.Ed = true
	var stdout strings.Builder
	res := Run([]byte("3d\nfoo\n"), cfg, fsys.NewMock(), nil, &stdout, &stdout)
	assert.Equal(t, 2, res.ExitCode)
	assert.Equal(t, "ed format patches are not supported by this version of patch", res.FatalMessage)
	assert.Empty(t, stdout.String())
}

func TestRun_UnparseableFatal(t *testing.T) {
	var stdout strings.Builder
	res := Run([]byte("this is not a patch at all\n"), config.Default(), fsys.NewMock(), nil, &stdout, &stdout)
	assert.Equal(t, 2, res.ExitCode)
	assert.NotEmpty(t, res.FatalMessage)
}

func TestRun_AggregatesWorstExitCode(t *testing.T) {
	patch := "--- ok\n+++ ok\n@@ -1,1 +1,1 @@\n-a\n+b\n" +
		"--- bad\n+++ bad\n@@ -1,1 +1,1 @@\n-nomatch\n+z\n"
	fs := fsys.NewMock().
		WithFile("ok", []byte("a\n"), 0o644).
		WithFile("bad", []byte("totally different\n"), 0o644)
	var stdout strings.Builder

	res := Run([]byte(patch), config.Default(), fs, nil, &stdout, &stdout)
	assert.Equal(t, 1, res.ExitCode)

	got, _ := fs.ReadFileString("ok")
	assert.Equal(t, "b\n", got)
	_, ok := fs.ReadFileString("bad.rej")
	assert.True(t, ok)
}
