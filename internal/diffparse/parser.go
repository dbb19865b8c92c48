package diffparse

import (
	"regexp"
	"strings"

	"github.com/syou6162/go-patch/internal/lineio"
	"github.com/syou6162/go-patch/internal/perrors"
)

var edHeaderRe = regexp.MustCompile(`^[0-9]+(,[0-9]+)?[acd]`)

// Parse decodes a full patch byte stream into an ordered slice of
// FilePatches. It is realized here as a slice for the same reason
// github.com/bluekeyes/go-gitdiff itself returns one ([]*File, not an
// iterator) — patch files are bounded, and a slice is the idiomatic Go
// shape for "a bounded, ordered collection of records" absent a streaming
// requirement.
//
// A single call assumes one dialect for the whole stream, which is how real
// patch files are produced in practice (a single `diff`/`git diff`
// invocation never mixes context and unified hunks); mixed-dialect streams
// are not a spec requirement.
func Parse(data []byte) ([]FilePatch, error) {
	if len(data) == 0 {
		return nil, nil
	}
	lines := lineio.SplitLines(data)

	for i := 0; i < len(lines); i++ {
		raw := lines[i].Text
		switch {
		case strings.HasPrefix(raw, "diff --git "):
			return parseGitStream(lines, i)
		case strings.HasPrefix(raw, "--- ") && i+1 < len(lines) && strings.HasPrefix(lines[i+1].Text, "+++ "):
			return parseUnifiedStream(lines, i)
		case strings.HasPrefix(raw, "*** ") && i+1 < len(lines) && strings.HasPrefix(lines[i+1].Text, "--- "):
			return parseContextStream(lines, i)
		case edHeaderRe.MatchString(raw):
			return nil, perrors.New(perrors.KindParseFatal, "ed format patches are not supported by this version of patch")
		}
	}
	return nil, perrors.New(perrors.KindParseFatal, "unable to determine patch format")
}

func parseUnifiedStream(lines []lineio.Line, i int) ([]FilePatch, error) {
	var out []FilePatch
	for i < len(lines) {
		raw := lines[i].Text
		if edHeaderRe.MatchString(raw) {
			return nil, perrors.New(perrors.KindParseFatal, "ed format patches are not supported by this version of patch")
		}
		if strings.HasPrefix(raw, "--- ") && i+1 < len(lines) && strings.HasPrefix(lines[i+1].Text, "+++ ") {
			fp, next := parseUnifiedFile(lines, i)
			out = append(out, fp)
			i = next
			continue
		}
		i++
	}
	return out, nil
}

func parseContextStream(lines []lineio.Line, i int) ([]FilePatch, error) {
	var out []FilePatch
	for i < len(lines) {
		raw := lines[i].Text
		if strings.HasPrefix(raw, "*** ") && i+1 < len(lines) && strings.HasPrefix(lines[i+1].Text, "--- ") {
			fp, next := parseContextFile(lines, i)
			out = append(out, fp)
			i = next
			continue
		}
		i++
	}
	return out, nil
}
