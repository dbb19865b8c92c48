// Package locator implements the Hunk Locator (C3): finding where a Hunk
// applies against a target line sequence, under a configurable fuzz and
// whitespace policy, with automatic detection of already-applied and
// reversed patches.
package locator

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/syou6162/go-patch/internal/diffparse"
	"github.com/syou6162/go-patch/internal/lineio"
	"github.com/syou6162/go-patch/internal/logger"
)

// Policy controls how permissive matching is.
type Policy struct {
	MaxFuzz          int
	IgnoreWhitespace bool
	// Forward, when true, asks an already-applied hunk to be silently
	// skipped rather than reported as an unreversed patch (the -N/--forward
	// flag).
	Forward bool
}

// DefaultMaxFuzz is patch(1)'s traditional default fuzz factor.
const DefaultMaxFuzz = 2

// Result is the outcome of Locate.
type Result struct {
	Matched bool
	At      int // index into target where the hunk's full old range begins
	Fuzz    int // fuzz level reported in the "succeeded ... with fuzz N" diagnostic

	// AlreadyApplied is set when the hunk's post-image was found instead of
	// its pre-image.
	AlreadyApplied bool
	// SkipApplied tells the Applier to treat this hunk as a no-op success
	// (Policy.Forward's behavior).
	SkipApplied bool
	// Unreversed tells the Applier this looks like an unreversed patch and
	// should be rejected with the standard diagnostic (default behavior
	// when Policy.Forward is false).
	Unreversed bool
}

// Locate searches target for hunk starting near guess, per // fuzz/offset search order: for each fuzz level from 0 to Policy.MaxFuzz,
// trim that many leading/trailing CONTEXT lines from the hunk's old side,
// then search outward from guess (0, +1, -1, +2, -2, ...), taking the first
// in-bounds match. If every fuzz level fails, it falls back to checking
// whether the hunk's post-image is already present (already-applied /
// reversed-patch detection).
func Locate(target []lineio.Line, hunk *diffparse.Hunk, guess int, policy Policy, log *logger.Logger) Result {
	if r, ok := search(target, hunk.OldLines(), hunk.OldCount, guess, policy); ok {
		return r
	}

	post := hunk.NewLines()
	if r, ok := search(target, post, len(post), guess, policy); ok {
		if policy.Forward {
			return Result{Matched: true, At: r.At, Fuzz: r.Fuzz, AlreadyApplied: true, SkipApplied: true}
		}
		return Result{Matched: false, AlreadyApplied: true, Unreversed: true}
	}

	if log != nil {
		logNearMiss(target, hunk, guess, log)
	}
	return Result{Matched: false}
}

// search runs the fuzz/offset spiral search for one line sequence (either a
// hunk's old side for forward matching, or its new side for already-applied
// detection).
func search(target []lineio.Line, want []diffparse.HunkLine, fullCount int, guess int, policy Policy) (Result, bool) {
	maxFuzz := policy.MaxFuzz
	if maxFuzz <= 0 {
		maxFuzz = 0
	}

	for fuzz := 0; fuzz <= maxFuzz; fuzz++ {
		trimmed, lead, _ := trimFuzz(want, fuzz)
		k := len(trimmed)
		baseGuess := guess + lead

		for _, offset := range spiralOffsets(len(target)) {
			idx := baseGuess + offset
			if idx < 0 || idx+k > len(target) {
				continue
			}
			if !windowMatches(target[idx:idx+k], trimmed, policy.IgnoreWhitespace) {
				continue
			}
			at := idx - lead
			if at < 0 || at+fullCount > len(target) {
				continue
			}
			reported := fuzz
			if !policy.IgnoreWhitespace && terminatorMismatch(target[idx:idx+k], trimmed) && reported < 2 {
				reported = 2
			}
			return Result{Matched: true, At: at, Fuzz: reported}, true
		}
	}
	return Result{}, false
}

// trimFuzz removes up to fuzz leading and trailing CONTEXT lines from want,
// returning the trimmed slice and how many were removed from the front (the
// amount the match position must be shifted back by to recover the full
// hunk's start).
func trimFuzz(want []diffparse.HunkLine, fuzz int) (trimmed []diffparse.HunkLine, lead, trail int) {
	for lead < fuzz && lead < len(want) && want[lead].Kind == diffparse.ContextLine {
		lead++
	}
	for trail < fuzz && trail < len(want)-lead && want[len(want)-1-trail].Kind == diffparse.ContextLine {
		trail++
	}
	return want[lead : len(want)-trail], lead, trail
}

// spiralOffsets yields 0, +1, -1, +2, -2, ... bounded so it never proposes an
// offset that could not possibly land in [0, limit), per // "bound search to the file length".
func spiralOffsets(limit int) []int {
	offsets := make([]int, 0, 2*limit+1)
	offsets = append(offsets, 0)
	for d := 1; d <= limit; d++ {
		offsets = append(offsets, d, -d)
	}
	return offsets
}

func windowMatches(targetWindow []lineio.Line, want []diffparse.HunkLine, ignoreWS bool) bool {
	for i, w := range want {
		if !textEqual(targetWindow[i].Text, w.Text, ignoreWS) {
			return false
		}
	}
	return true
}

func terminatorMismatch(targetWindow []lineio.Line, want []diffparse.HunkLine) bool {
	for i, w := range want {
		if w.Text == "" {
			continue
		}
		if targetWindow[i].Term != w.Term && w.Term != lineio.NoTerminator && targetWindow[i].Term != lineio.NoTerminator {
			return true
		}
	}
	return false
}

func textEqual(a, b string, ignoreWS bool) bool {
	if !ignoreWS {
		return a == b
	}
	return collapseWhitespace(a) == collapseWhitespace(b)
}

// collapseWhitespace implements --ignore-whitespace's comparison rule:
// leading/trailing whitespace ignored, internal runs collapsed to one space.
func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

// logNearMiss uses github.com/sergi/go-diff to show, at Debug level, the
// closest candidate window to the hunk's guessed position when no fuzz
// level matched at all. It is purely diagnostic: it plays no role in the
// match decision, which stays exact/whitespace-policy comparison.
func logNearMiss(target []lineio.Line, hunk *diffparse.Hunk, guess int, log *logger.Logger) {
	old := hunk.OldLines()
	if len(old) == 0 || guess < 0 || guess >= len(target) {
		return
	}
	end := guess + len(old)
	if end > len(target) {
		end = len(target)
	}
	wantText := joinText(old)
	gotText := joinText(targetLinesAsHunk(target[guess:end]))

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(wantText, gotText, false)
	log.Debug("hunk #? failed to locate near line %d:\n%s", guess+1, dmp.DiffPrettyText(diffs))
}

func joinText(lines []diffparse.HunkLine) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

func targetLinesAsHunk(lines []lineio.Line) []diffparse.HunkLine {
	out := make([]diffparse.HunkLine, len(lines))
	for i, l := range lines {
		out[i] = diffparse.HunkLine{Text: l.Text}
	}
	return out
}

// DescribeFuzz renders the "succeeded at L with fuzz F" clause used by
// internal/applier's per-hunk diagnostics.
func DescribeFuzz(lineNum, fuzz int) string {
	return fmt.Sprintf("succeeded at %d with fuzz %d", lineNum, fuzz)
}
