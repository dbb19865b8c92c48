package diffparse

import (
	"regexp"
	"strconv"

	"github.com/syou6162/go-patch/internal/lineio"
)

var unifiedHunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@(.*)$`)

// parseUnifiedHeaderLine parses a "@@ -A,B +C,D @@ section" line. A missing
// ",B"/",D" count means 1.
func parseUnifiedHeaderLine(s string) (h Hunk, ok bool) {
	m := unifiedHunkHeaderRe.FindStringSubmatch(s)
	if m == nil {
		return Hunk{}, false
	}
	h.OldStart, _ = strconv.Atoi(m[1])
	h.OldCount = atoiOrOne(m[2])
	h.NewStart, _ = strconv.Atoi(m[3])
	h.NewCount = atoiOrOne(m[4])
	h.Section = m[5]
	return h, true
}

func atoiOrOne(s string) int {
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return n
}

// parseUnifiedFile parses one "--- old" / "+++ new" file block (with no
// surrounding git wrapper) starting at lines[i] and returns the FilePatch
// plus the index of the first line not consumed.
func parseUnifiedFile(lines []lineio.Line, i int) (FilePatch, int) {
	fp := FilePatch{Format: Unified}
	fp.OldPath = decodePathField(lines[i].Text[len("--- "):])
	fp.NewPath = decodePathField(lines[i+1].Text[len("+++ "):])
	i += 2

	fp.Operation = operationFromPaths(fp.OldPath, fp.NewPath)

	for i < len(lines) {
		hunk, ok := parseUnifiedHeaderLine(lines[i].Text)
		if !ok {
			break
		}
		i++
		i = readUnifiedHunkBody(lines, i, &hunk)
		fp.Hunks = append(fp.Hunks, hunk)
	}
	return fp, i
}

// readUnifiedHunkBody consumes hunk.OldCount+hunk.NewCount worth of body
// lines starting at lines[i], filling in hunk.Lines, and returns the index
// of the first unconsumed line.
func readUnifiedHunkBody(lines []lineio.Line, i int, hunk *Hunk) int {
	oldRemain, newRemain := hunk.OldCount, hunk.NewCount
	for i < len(lines) && (oldRemain > 0 || newRemain > 0) {
		raw := lines[i].Text
		term := lines[i].Term

		if len(raw) == 0 {
			hunk.Lines = append(hunk.Lines, HunkLine{Kind: ContextLine, Text: "", Term: term})
			oldRemain--
			newRemain--
			i++
			continue
		}

		switch raw[0] {
		case ' ':
			hunk.Lines = append(hunk.Lines, HunkLine{Kind: ContextLine, Text: raw[1:], Term: term})
			oldRemain--
			newRemain--
		case '-':
			hunk.Lines = append(hunk.Lines, HunkLine{Kind: DeleteLine, Text: raw[1:], Term: term})
			oldRemain--
		case '+':
			hunk.Lines = append(hunk.Lines, HunkLine{Kind: InsertLine, Text: raw[1:], Term: term})
			newRemain--
		case '\\':
			markNoNewline(hunk)
		default:
			// Malformed/foreign line inside declared counts: stop here
			// rather than misinterpreting trailing patch content as hunk body.
			return i
		}
		i++
	}
	// A "\ No newline at end of file" marker right after the hunk's last
	// body line still belongs to that line.
	if i < len(lines) && len(lines[i].Text) > 0 && lines[i].Text[0] == '\\' {
		markNoNewline(hunk)
		i++
	}
	return i
}

// markNoNewline applies a "\ No newline at end of file" marker to the most
// recently appended HunkLine.
func markNoNewline(hunk *Hunk) {
	if n := len(hunk.Lines); n > 0 {
		hunk.Lines[n-1].Term = lineio.NoTerminator
	}
}

// operationFromPaths infers Create/Delete/Modify from the traditional
// dialects' /dev/null convention.
func operationFromPaths(oldPath, newPath string) Operation {
	switch {
	case oldPath == DevNull:
		return Create
	case newPath == DevNull:
		return Delete
	default:
		return Modify
	}
}
