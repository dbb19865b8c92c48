package locator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syou6162/go-patch/internal/diffparse"
	"github.com/syou6162/go-patch/internal/lineio"
)

func lines(ss ...string) []lineio.Line {
	out := make([]lineio.Line, len(ss))
	for i, s := range ss {
		out[i] = lineio.Line{Text: s, Term: lineio.LF}
	}
	return out
}

func hunkLines(kind diffparse.LineKind, ss ...string) []diffparse.HunkLine {
	out := make([]diffparse.HunkLine, len(ss))
	for i, s := range ss {
		out[i] = diffparse.HunkLine{Kind: kind, Text: s, Term: lineio.LF}
	}
	return out
}

func TestLocate_ExactMatchAtGuess(t *testing.T) {
	target := lines("a", "b", "c", "d", "e")
	hunk := &diffparse.Hunk{
		OldStart: 2, OldCount: 3,
		NewStart: 2, NewCount: 3,
		Lines: []diffparse.HunkLine{
			{Kind: diffparse.ContextLine, Text: "b", Term: lineio.LF},
			{Kind: diffparse.DeleteLine, Text: "c", Term: lineio.LF},
			{Kind: diffparse.InsertLine, Text: "C", Term: lineio.LF},
			{Kind: diffparse.ContextLine, Text: "d", Term: lineio.LF},
		},
	}
	res := Locate(target, hunk, 1, Policy{MaxFuzz: 2}, nil)
	require.True(t, res.Matched)
	assert.Equal(t, 1, res.At)
	assert.Equal(t, 0, res.Fuzz)
}

func TestLocate_OffsetSearch(t *testing.T) {
	target := lines("x", "x", "a", "b", "c", "x")
	hunk := &diffparse.Hunk{
		OldStart: 1, OldCount: 3,
		NewStart: 1, NewCount: 3,
		Lines: hunkLinesMixed(),
	}
	res := Locate(target, hunk, 0, Policy{MaxFuzz: 2}, nil)
	require.True(t, res.Matched)
	assert.Equal(t, 2, res.At)
}

func hunkLinesMixed() []diffparse.HunkLine {
	return []diffparse.HunkLine{
		{Kind: diffparse.ContextLine, Text: "a", Term: lineio.LF},
		{Kind: diffparse.DeleteLine, Text: "b", Term: lineio.LF},
		{Kind: diffparse.InsertLine, Text: "B", Term: lineio.LF},
		{Kind: diffparse.ContextLine, Text: "c", Term: lineio.LF},
	}
}

func TestLocate_FuzzTrimsMismatchedContext(t *testing.T) {
	target := lines("DIFFERENT", "b", "c", "d", "TAIL-DIFFERENT")
	hunk := &diffparse.Hunk{
		OldStart: 1, OldCount: 5,
		NewStart: 1, NewCount: 5,
		Lines: []diffparse.HunkLine{
			{Kind: diffparse.ContextLine, Text: "a", Term: lineio.LF},
			{Kind: diffparse.ContextLine, Text: "b", Term: lineio.LF},
			{Kind: diffparse.DeleteLine, Text: "c", Term: lineio.LF},
			{Kind: diffparse.InsertLine, Text: "C", Term: lineio.LF},
			{Kind: diffparse.ContextLine, Text: "d", Term: lineio.LF},
			{Kind: diffparse.ContextLine, Text: "e", Term: lineio.LF},
		},
	}
	res := Locate(target, hunk, 0, Policy{MaxFuzz: 1}, nil)
	require.True(t, res.Matched)
	assert.Equal(t, 1, res.Fuzz)
	assert.Equal(t, 0, res.At)
}

func TestLocate_AlreadyApplied_ForwardSkips(t *testing.T) {
	target := lines("a", "B", "c")
	hunk := &diffparse.Hunk{
		OldStart: 1, OldCount: 3,
		NewStart: 1, NewCount: 3,
		Lines: []diffparse.HunkLine{
			{Kind: diffparse.ContextLine, Text: "a", Term: lineio.LF},
			{Kind: diffparse.DeleteLine, Text: "b", Term: lineio.LF},
			{Kind: diffparse.InsertLine, Text: "B", Term: lineio.LF},
			{Kind: diffparse.ContextLine, Text: "c", Term: lineio.LF},
		},
	}
	res := Locate(target, hunk, 0, Policy{MaxFuzz: 2, Forward: true}, nil)
	assert.True(t, res.Matched)
	assert.True(t, res.AlreadyApplied)
	assert.True(t, res.SkipApplied)
}

func TestLocate_AlreadyApplied_DefaultReportsUnreversed(t *testing.T) {
	target := lines("a", "B", "c")
	hunk := &diffparse.Hunk{
		OldStart: 1, OldCount: 3,
		NewStart: 1, NewCount: 3,
		Lines: []diffparse.HunkLine{
			{Kind: diffparse.ContextLine, Text: "a", Term: lineio.LF},
			{Kind: diffparse.DeleteLine, Text: "b", Term: lineio.LF},
			{Kind: diffparse.InsertLine, Text: "B", Term: lineio.LF},
			{Kind: diffparse.ContextLine, Text: "c", Term: lineio.LF},
		},
	}
	res := Locate(target, hunk, 0, Policy{MaxFuzz: 2}, nil)
	assert.False(t, res.Matched)
	assert.True(t, res.AlreadyApplied)
	assert.True(t, res.Unreversed)
}

func TestLocate_NoMatch(t *testing.T) {
	target := lines("x", "y", "z")
	hunk := &diffparse.Hunk{
		OldStart: 1, OldCount: 1,
		NewStart: 1, NewCount: 1,
		Lines: []diffparse.HunkLine{
			{Kind: diffparse.DeleteLine, Text: "q", Term: lineio.LF},
			{Kind: diffparse.InsertLine, Text: "r", Term: lineio.LF},
		},
	}
	res := Locate(target, hunk, 0, Policy{MaxFuzz: 1}, nil)
	assert.False(t, res.Matched)
	assert.False(t, res.AlreadyApplied)
}

func TestLocate_IgnoreWhitespace(t *testing.T) {
	target := lines("a", "b   c", "d")
	hunk := &diffparse.Hunk{
		OldStart: 1, OldCount: 3,
		NewStart: 1, NewCount: 3,
		Lines: []diffparse.HunkLine{
			{Kind: diffparse.ContextLine, Text: "a", Term: lineio.LF},
			{Kind: diffparse.DeleteLine, Text: "b c", Term: lineio.LF},
			{Kind: diffparse.InsertLine, Text: "B C", Term: lineio.LF},
			{Kind: diffparse.ContextLine, Text: "d", Term: lineio.LF},
		},
	}
	res := Locate(target, hunk, 0, Policy{MaxFuzz: 0, IgnoreWhitespace: true}, nil)
	require.True(t, res.Matched)
	assert.Equal(t, 0, res.Fuzz)
}

func TestLocate_LineEndingFuzzBump(t *testing.T) {
	target := []lineio.Line{
		{Text: "a", Term: lineio.CRLF},
		{Text: "b", Term: lineio.CRLF},
		{Text: "c", Term: lineio.CRLF},
	}
	hunk := &diffparse.Hunk{
		OldStart: 1, OldCount: 3,
		NewStart: 1, NewCount: 3,
		Lines: []diffparse.HunkLine{
			{Kind: diffparse.ContextLine, Text: "a", Term: lineio.LF},
			{Kind: diffparse.DeleteLine, Text: "b", Term: lineio.LF},
			{Kind: diffparse.InsertLine, Text: "B", Term: lineio.LF},
			{Kind: diffparse.ContextLine, Text: "c", Term: lineio.LF},
		},
	}
	res := Locate(target, hunk, 0, Policy{MaxFuzz: 0}, nil)
	require.True(t, res.Matched)
	assert.Equal(t, 2, res.Fuzz)
}

func TestLocate_IgnoreWhitespaceSuppressesLineEndingBump(t *testing.T) {
	target := []lineio.Line{
		{Text: "a", Term: lineio.CRLF},
		{Text: "b", Term: lineio.CRLF},
		{Text: "c", Term: lineio.CRLF},
	}
	hunk := &diffparse.Hunk{
		OldStart: 1, OldCount: 3,
		NewStart: 1, NewCount: 3,
		Lines: []diffparse.HunkLine{
			{Kind: diffparse.ContextLine, Text: "a", Term: lineio.LF},
			{Kind: diffparse.DeleteLine, Text: "b", Term: lineio.LF},
			{Kind: diffparse.InsertLine, Text: "B", Term: lineio.LF},
			{Kind: diffparse.ContextLine, Text: "c", Term: lineio.LF},
		},
	}
	res := Locate(target, hunk, 0, Policy{MaxFuzz: 0, IgnoreWhitespace: true}, nil)
	require.True(t, res.Matched)
	assert.Equal(t, 0, res.Fuzz)
}
