package diffparse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/syou6162/go-patch/internal/lineio"
)

var (
	contextOldRangeRe = regexp.MustCompile(`^\*\*\* (\d+)(?:,(\d+))? \*\*\*\*\s*$`)
	contextNewRangeRe = regexp.MustCompile(`^--- (\d+)(?:,(\d+))? ----\s*$`)
)

// parseContextFile parses one "*** old" / "--- new" file block (context
// dialect) starting at lines[i] and returns the FilePatch plus the index of
// the first unconsumed line.
func parseContextFile(lines []lineio.Line, i int) (FilePatch, int) {
	fp := FilePatch{Format: Context}
	fp.OldPath = decodePathField(lines[i].Text[len("*** "):])
	fp.NewPath = decodePathField(lines[i+1].Text[len("--- "):])
	i += 2
	fp.Operation = operationFromPaths(fp.OldPath, fp.NewPath)

	for i < len(lines) && strings.HasPrefix(lines[i].Text, "***************") {
		i++
		hunk, next := readContextHunk(lines, i)
		fp.Hunks = append(fp.Hunks, hunk)
		i = next
	}
	return fp, i
}

// contextHalfLine is one raw line of a context-diff half-hunk before it is
// merged with its counterpart half into canonical Hunk.Lines ordering.
type contextHalfLine struct {
	changed bool // "- "/"! " (old) or "+ "/"! " (new), vs "  " context
	text    string
	term    lineio.Terminator
}

func readContextHunk(lines []lineio.Line, i int) (Hunk, int) {
	var hunk Hunk

	m := contextOldRangeRe.FindStringSubmatch(lines[i].Text)
	oldFirst := 1
	if m != nil {
		oldFirst, _ = strconv.Atoi(m[1])
	}
	hunk.OldStart = oldFirst
	i++

	var oldHalf []contextHalfLine
	for i < len(lines) {
		raw := lines[i].Text
		if contextNewRangeRe.MatchString(raw) {
			break
		}
		if strings.HasPrefix(raw, "\\") {
			markHalfNoNewline(oldHalf)
			i++
			continue
		}
		if raw == "" {
			oldHalf = append(oldHalf, contextHalfLine{term: lines[i].Term})
			i++
			continue
		}
		switch {
		case strings.HasPrefix(raw, "  "):
			oldHalf = append(oldHalf, contextHalfLine{text: raw[2:], term: lines[i].Term})
		case strings.HasPrefix(raw, "- "), strings.HasPrefix(raw, "! "):
			oldHalf = append(oldHalf, contextHalfLine{changed: true, text: raw[2:], term: lines[i].Term})
		default:
			goto doneOld
		}
		i++
	}
doneOld:

	m = contextNewRangeRe.FindStringSubmatch(lines[i].Text)
	newFirst := 1
	if m != nil {
		newFirst, _ = strconv.Atoi(m[1])
	}
	hunk.NewStart = newFirst
	i++

	var newHalf []contextHalfLine
	for i < len(lines) {
		raw := lines[i].Text
		if strings.HasPrefix(raw, "***************") || isFileHeaderStart(raw) {
			break
		}
		if strings.HasPrefix(raw, "\\") {
			markHalfNoNewline(newHalf)
			i++
			continue
		}
		if raw == "" {
			newHalf = append(newHalf, contextHalfLine{term: lines[i].Term})
			i++
			continue
		}
		switch {
		case strings.HasPrefix(raw, "  "):
			newHalf = append(newHalf, contextHalfLine{text: raw[2:], term: lines[i].Term})
		case strings.HasPrefix(raw, "+ "), strings.HasPrefix(raw, "! "):
			newHalf = append(newHalf, contextHalfLine{changed: true, text: raw[2:], term: lines[i].Term})
		default:
			goto doneNew
		}
		i++
	}
doneNew:

	hunk.OldCount = len(oldHalf)
	hunk.NewCount = len(newHalf)
	hunk.Lines = mergeContextHalves(oldHalf, newHalf)
	return hunk, i
}

func markHalfNoNewline(half []contextHalfLine) {
	if n := len(half); n > 0 {
		half[n-1].term = lineio.NoTerminator
	}
}

// isFileHeaderStart reports whether raw looks like the start of the next
// FilePatch's own header, so a context hunk's new half stops even without a
// following "***************" separator (e.g. at end of stream).
func isFileHeaderStart(raw string) bool {
	return strings.HasPrefix(raw, "*** ") || strings.HasPrefix(raw, "diff --git ") || strings.HasPrefix(raw, "--- ")
}

// mergeContextHalves reconstructs canonical diff-script ordering (runs of
// context, then a paired run of deletes/inserts, repeating) from the two
// independently-listed context-diff halves, the way diffutils internally
// reconciles "diff -c" output with "diff -u".
func mergeContextHalves(oldHalf, newHalf []contextHalfLine) []HunkLine {
	var out []HunkLine
	oi, ni := 0, 0
	for oi < len(oldHalf) || ni < len(newHalf) {
		oldCtx := oi >= len(oldHalf) || !oldHalf[oi].changed
		newCtx := ni >= len(newHalf) || !newHalf[ni].changed
		if oldCtx && newCtx {
			if oi < len(oldHalf) {
				out = append(out, HunkLine{Kind: ContextLine, Text: oldHalf[oi].text, Term: oldHalf[oi].term})
			} else {
				out = append(out, HunkLine{Kind: ContextLine, Text: newHalf[ni].text, Term: newHalf[ni].term})
			}
			oi++
			ni++
			continue
		}
		for oi < len(oldHalf) && oldHalf[oi].changed {
			out = append(out, HunkLine{Kind: DeleteLine, Text: oldHalf[oi].text, Term: oldHalf[oi].term})
			oi++
		}
		for ni < len(newHalf) && newHalf[ni].changed {
			out = append(out, HunkLine{Kind: InsertLine, Text: newHalf[ni].text, Term: newHalf[ni].term})
			ni++
		}
	}
	return out
}
