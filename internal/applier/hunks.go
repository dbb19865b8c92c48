package applier

import (
	"fmt"

	"github.com/syou6162/go-patch/internal/diffparse"
	"github.com/syou6162/go-patch/internal/lineio"
	"github.com/syou6162/go-patch/internal/locator"
	"github.com/syou6162/go-patch/internal/logger"
)

// hunkApplyResult is the outcome of applying every hunk of one FilePatch
// against a loaded target.
type hunkApplyResult struct {
	Lines       []lineio.Line
	Diagnostics []string
	Failed      []diffparse.Hunk
}

// applyHunks walks hunks in order against target, tracking a cumulative
// line offset: each hunk's guess is its header start adjusted by the net
// line-count change of every hunk applied before it in this file. When
// reverse is set, every hunk is inverted (Delete/Insert roles swapped)
// before it is located or spliced in, so the patch is applied backwards.
func applyHunks(target []lineio.Line, hunks []diffparse.Hunk, policy locator.Policy, log *logger.Logger, reverse bool) hunkApplyResult {
	lines := append([]lineio.Line(nil), target...)
	lineOffset := 0
	var diags []string
	var failed []diffparse.Hunk
	unreversedPrinted := false

	for idx := range hunks {
		h := hunks[idx]
		if reverse {
			h = *h.Inverted()
		}
		guess := h.OldStart - 1 + lineOffset
		if guess < 0 {
			guess = 0
		}
		res := locator.Locate(lines, &h, guess, policy, log)

		switch {
		case res.Matched && !res.AlreadyApplied:
			repl := toLines(&h, lines, res.At)
			lines = spliceLines(lines, res.At, h.OldCount, repl)
			lineOffset += h.NewCount - h.OldCount
			if res.Fuzz > 0 {
				diags = append(diags, fmt.Sprintf("Hunk #%d %s.", idx+1, locator.DescribeFuzz(res.At+1, res.Fuzz)))
			}
		case res.Matched && res.SkipApplied:
			lineOffset += h.NewCount - h.OldCount
		case res.Unreversed:
			if !unreversedPrinted {
				diags = append(diags, "Unreversed patch detected!  Skipping patch.")
				unreversedPrinted = true
			}
			failed = append(failed, h)
		default:
			diags = append(diags, fmt.Sprintf("Hunk #%d FAILED at %d.", idx+1, guess+1))
			failed = append(failed, h)
		}
	}

	return hunkApplyResult{Lines: lines, Diagnostics: diags, Failed: failed}
}

// toLines builds h's post-image for splicing at target[at:]: inserted lines
// come from the patch with the patch's terminators, while context lines keep
// the target's own line, terminator included.
func toLines(h *diffparse.Hunk, target []lineio.Line, at int) []lineio.Line {
	out := make([]lineio.Line, 0, h.NewCount)
	oldIdx := 0
	for _, l := range h.Lines {
		switch l.Kind {
		case diffparse.ContextLine:
			if at+oldIdx < len(target) {
				out = append(out, target[at+oldIdx])
			} else {
				out = append(out, lineio.Line{Text: l.Text, Term: l.Term})
			}
			oldIdx++
		case diffparse.DeleteLine:
			oldIdx++
		case diffparse.InsertLine:
			out = append(out, lineio.Line{Text: l.Text, Term: l.Term})
		}
	}
	return out
}

func spliceLines(lines []lineio.Line, at, oldCount int, repl []lineio.Line) []lineio.Line {
	out := make([]lineio.Line, 0, len(lines)-oldCount+len(repl))
	out = append(out, lines[:at]...)
	out = append(out, repl...)
	out = append(out, lines[at+oldCount:]...)
	return out
}
