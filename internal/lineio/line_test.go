package lineio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLines_RoundTrip(t *testing.T) {
	cases := [][]byte{
		[]byte("int main()\n{\n}\n"),
		[]byte("a\r\nb\r\nc\r\n"),
		[]byte("a\nb\nc"),
		[]byte(""),
		[]byte("\n"),
		[]byte("one line no terminator"),
	}

	for _, data := range cases {
		lines := SplitLines(data)
		var buf bytes.Buffer
		require.NoError(t, Emit(&buf, lines, Preserve))
		assert.Equal(t, string(data), buf.String())
	}
}

func TestSplitLines_TerminatorTags(t *testing.T) {
	lines := SplitLines([]byte("a\nb\r\nc"))
	require.Len(t, lines, 3)
	assert.Equal(t, Line{Text: "a", Term: LF}, lines[0])
	assert.Equal(t, Line{Text: "b", Term: CRLF}, lines[1])
	assert.Equal(t, Line{Text: "c", Term: NoTerminator}, lines[2])
}

func TestSplitLines_StripsBOM(t *testing.T) {
	lines := SplitLines([]byte("\xef\xbb\xbfhello\n"))
	require.Len(t, lines, 1)
	assert.Equal(t, "hello", lines[0].Text)
}

func TestEmit_ForcePolicies(t *testing.T) {
	lines := []Line{{Text: "a", Term: LF}, {Text: "b", Term: NoTerminator}}

	var lf bytes.Buffer
	require.NoError(t, Emit(&lf, lines, ForceLF))
	assert.Equal(t, "a\nb", lf.String())

	var crlf bytes.Buffer
	require.NoError(t, Emit(&crlf, lines, ForceCRLF))
	assert.Equal(t, "a\r\nb", crlf.String())
}

func TestParseNewlinePolicy(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want NewlinePolicy
		ok   bool
	}{
		{"", Preserve, true},
		{"preserve", Preserve, true},
		{"lf", ForceLF, true},
		{"crlf", ForceCRLF, true},
		{"native", Native, true},
		{"bogus", Preserve, false},
	} {
		got, ok := ParseNewlinePolicy(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		if ok {
			assert.Equal(t, tc.want, got, tc.in)
		}
	}
}
