// Package testutils provides small test helpers shared across go-patch's
// package-level test suites, built directly on the in-memory
// internal/fsys.Mock filesystem rather than a real working directory.
package testutils

import (
	"strings"
	"testing"

	"github.com/syou6162/go-patch/internal/fsys"
)

// AssertFileEqual fails the test unless the mock filesystem's file at path
// has exactly the given text content.
func AssertFileEqual(t *testing.T, fs *fsys.Mock, path, want string) {
	t.Helper()
	got, ok := fs.ReadFileString(path)
	if !ok {
		t.Fatalf("expected file %q to exist", path)
		return
	}
	if got != want {
		t.Fatalf("file %q content mismatch\n  got:  %q\n want: %q", path, got, want)
	}
}

// AssertFileAbsent fails the test if path exists in the mock filesystem.
func AssertFileAbsent(t *testing.T, fs *fsys.Mock, path string) {
	t.Helper()
	if _, ok := fs.ReadFileString(path); ok {
		t.Fatalf("expected file %q to be absent", path)
	}
}

// AssertDiagnosticsContain verifies that diags (the stdout lines an Applier
// or Driver run produced) contains every string in want.
func AssertDiagnosticsContain(t *testing.T, diags []string, want ...string) {
	t.Helper()
	joined := strings.Join(diags, "\n")
	for _, s := range want {
		if !strings.Contains(joined, s) {
			t.Fatalf("diagnostics missing %q\n\nActual diagnostics:\n%s", s, joined)
		}
	}
}

// AssertDiagnosticsNotContain verifies that diags contains none of the
// strings in unwanted.
func AssertDiagnosticsNotContain(t *testing.T, diags []string, unwanted ...string) {
	t.Helper()
	joined := strings.Join(diags, "\n")
	for _, s := range unwanted {
		if strings.Contains(joined, s) {
			t.Fatalf("diagnostics should not contain %q\n\nActual diagnostics:\n%s", s, joined)
		}
	}
}
