// Package reject renders the hunks an Applier failed to locate into a .rej
// file, in either unified (default) or context format.
package reject

import (
	"fmt"
	"strings"

	"github.com/syou6162/go-patch/internal/config"
	"github.com/syou6162/go-patch/internal/diffparse"
	"github.com/syou6162/go-patch/internal/lineio"
)

// Render builds the byte content of a reject file for the given failed
// hunks, using the FilePatch's own old/new paths as the reject's file
// header. Each hunk header is re-rendered from the hunk's parsed start and
// count fields; the original header line text is not kept.
func Render(oldPath, newPath string, format config.RejectFormat, hunks []diffparse.Hunk) []byte {
	if format == config.RejectContext {
		return renderContext(oldPath, newPath, hunks)
	}
	return renderUnified(oldPath, newPath, hunks)
}

func renderUnified(oldPath, newPath string, hunks []diffparse.Hunk) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "--- %s\n", oldPath)
	fmt.Fprintf(&b, "+++ %s\n", newPath)
	for _, h := range hunks {
		writeUnifiedHunk(&b, h)
	}
	return []byte(b.String())
}

func writeUnifiedHunk(b *strings.Builder, h diffparse.Hunk) {
	section := ""
	if h.Section != "" {
		section = " " + strings.TrimPrefix(h.Section, " ")
	}
	fmt.Fprintf(b, "@@ -%d,%d +%d,%d @@%s\n", h.OldStart, h.OldCount, h.NewStart, h.NewCount, section)
	for _, l := range h.Lines {
		switch l.Kind {
		case diffparse.ContextLine:
			b.WriteByte(' ')
		case diffparse.DeleteLine:
			b.WriteByte('-')
		case diffparse.InsertLine:
			b.WriteByte('+')
		}
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	markNoNewline(b, h)
}

// markNoNewline appends "\ No newline at end of file" for any side whose
// last line in the hunk has no terminator. Unified reject output needs one
// marker per side that ends without a newline, inserted right after that
// side's corresponding printed line; since both sides are interleaved here,
// we instead scan for NoTerminator lines at hunk-construction time in the
// caller's hunk.Lines ordering, which already places them correctly because
// diffparse preserves source ordering.
func markNoNewline(b *strings.Builder, h diffparse.Hunk) {
	// Reject rendering here relies on each HunkLine already being emitted
	// with its own content above; a trailing no-newline marker is only
	// meaningful on the very last line of the hunk body for each side, which
	// diffparse always represents as the final matching HunkLine. We detect
	// it post hoc by checking the last old-side and new-side lines.
	old := h.OldLines()
	if n := len(old); n > 0 && old[n-1].Term == lineio.NoTerminator {
		b.WriteString("\\ No newline at end of file\n")
	}
	newl := h.NewLines()
	if n := len(newl); n > 0 && newl[n-1].Term == lineio.NoTerminator && (len(old) == 0 || old[len(old)-1].Text != newl[n-1].Text) {
		b.WriteString("\\ No newline at end of file\n")
	}
}

func renderContext(oldPath, newPath string, hunks []diffparse.Hunk) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "*** %s\n", oldPath)
	fmt.Fprintf(&b, "--- %s\n", newPath)
	for _, h := range hunks {
		writeContextHunk(&b, h)
	}
	return []byte(b.String())
}

func writeContextHunk(b *strings.Builder, h diffparse.Hunk) {
	b.WriteString("***************\n")
	fmt.Fprintf(b, "*** %d,%d ****\n", h.OldStart, h.OldCount)
	hasDelete := false
	for _, l := range h.Lines {
		switch l.Kind {
		case diffparse.ContextLine:
			fmt.Fprintf(b, "  %s\n", l.Text)
		case diffparse.DeleteLine:
			fmt.Fprintf(b, "- %s\n", l.Text)
			hasDelete = true
		}
	}
	if old := h.OldLines(); len(old) > 0 && old[len(old)-1].Term == lineio.NoTerminator && hasDelete {
		b.WriteString("\\ No newline at end of file\n")
	}

	fmt.Fprintf(b, "--- %d,%d ----\n", h.NewStart, h.NewCount)
	hasInsert := false
	for _, l := range h.Lines {
		switch l.Kind {
		case diffparse.ContextLine:
			fmt.Fprintf(b, "  %s\n", l.Text)
		case diffparse.InsertLine:
			fmt.Fprintf(b, "+ %s\n", l.Text)
			hasInsert = true
		}
	}
	if newl := h.NewLines(); len(newl) > 0 && newl[len(newl)-1].Term == lineio.NoTerminator && hasInsert {
		b.WriteString("\\ No newline at end of file\n")
	}
}
