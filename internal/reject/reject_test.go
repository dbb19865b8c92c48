package reject

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syou6162/go-patch/internal/config"
	"github.com/syou6162/go-patch/internal/diffparse"
	"github.com/syou6162/go-patch/internal/lineio"
)

func TestRender_Unified(t *testing.T) {
	h := diffparse.Hunk{
		OldStart: 1, OldCount: 2, NewStart: 1, NewCount: 2,
		Lines: []diffparse.HunkLine{
			{Kind: diffparse.ContextLine, Text: "a", Term: lineio.LF},
			{Kind: diffparse.DeleteLine, Text: "b", Term: lineio.LF},
			{Kind: diffparse.InsertLine, Text: "B", Term: lineio.LF},
		},
	}
	out := Render("foo", "foo", config.RejectUnified, []diffparse.Hunk{h})
	s := string(out)
	assert.Contains(t, s, "--- foo\n")
	assert.Contains(t, s, "+++ foo\n")
	assert.Contains(t, s, "@@ -1,2 +1,2 @@\n")
	assert.Contains(t, s, " a\n-b\n+B\n")
}

func TestRender_Context(t *testing.T) {
	h := diffparse.Hunk{
		OldStart: 1, OldCount: 2, NewStart: 1, NewCount: 2,
		Lines: []diffparse.HunkLine{
			{Kind: diffparse.ContextLine, Text: "a", Term: lineio.LF},
			{Kind: diffparse.DeleteLine, Text: "b", Term: lineio.LF},
			{Kind: diffparse.InsertLine, Text: "B", Term: lineio.LF},
		},
	}
	out := Render("foo", "foo", config.RejectContext, []diffparse.Hunk{h})
	s := string(out)
	assert.Contains(t, s, "*** foo\n")
	assert.Contains(t, s, "*** 1,2 ****\n")
	assert.Contains(t, s, "- b\n")
	assert.Contains(t, s, "--- 1,2 ----\n")
	assert.Contains(t, s, "+ B\n")
}

func TestRender_NoNewlineMarker(t *testing.T) {
	h := diffparse.Hunk{
		OldStart: 1, OldCount: 1, NewStart: 1, NewCount: 1,
		Lines: []diffparse.HunkLine{
			{Kind: diffparse.DeleteLine, Text: "b", Term: lineio.NoTerminator},
			{Kind: diffparse.InsertLine, Text: "B", Term: lineio.NoTerminator},
		},
	}
	out := Render("foo", "foo", config.RejectUnified, []diffparse.Hunk{h})
	s := string(out)
	assert.Contains(t, s, "\\ No newline at end of file\n")
}
