// Package lineio implements the byte-accurate line buffer: splitting raw
// bytes into terminator-tagged lines and re-emitting them under a newline
// policy. It is the leaf component every other package in go-patch builds on.
package lineio

import (
	"bufio"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Terminator tags how a Line ended in its source bytes.
type Terminator int

const (
	// NoTerminator marks a line with no trailing terminator at all. Legal
	// only on the last line of a file.
	NoTerminator Terminator = iota
	// LF marks a line terminated by a bare '\n'.
	LF
	// CRLF marks a line terminated by "\r\n".
	CRLF
)

// String renders the terminator's literal bytes, for diagnostics and tests.
func (t Terminator) String() string {
	switch t {
	case LF:
		return "\n"
	case CRLF:
		return "\r\n"
	default:
		return ""
	}
}

// Line is a single line of text plus the terminator it was read with.
// Text never includes the terminator bytes.
type Line struct {
	Text string
	Term Terminator
}

// NewlinePolicy selects how Emit writes each Line's terminator.
type NewlinePolicy int

const (
	// Preserve keeps each Line's own recorded terminator.
	Preserve NewlinePolicy = iota
	// ForceLF coerces every terminator to '\n'.
	ForceLF
	// ForceCRLF coerces every terminator to "\r\n".
	ForceCRLF
	// Native coerces every terminator to the host line ending.
	Native
)

// ParseNewlinePolicy maps the --newline-output flag value to a NewlinePolicy.
func ParseNewlinePolicy(s string) (NewlinePolicy, bool) {
	switch s {
	case "", "preserve":
		return Preserve, true
	case "lf":
		return ForceLF, true
	case "crlf":
		return ForceCRLF, true
	case "native":
		return Native, true
	default:
		return Preserve, false
	}
}

// SplitLines splits raw bytes into Lines, each tagged with the terminator it
// was found with. It is total: every byte of input is accounted for, and it
// is the exact inverse of Emit(..., Preserve) — split then preserve-emit
// reproduces the original bytes byte for byte.
//
// A BOM at the very start of the input is stripped before splitting, as
// patch(1) implementations commonly tolerate BOM-prefixed source files.
func SplitLines(data []byte) []Line {
	data = stripBOM(data)
	if len(data) == 0 {
		return nil
	}

	var lines []Line
	start := 0
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case '\n':
			if i > start && data[i-1] == '\r' {
				lines = append(lines, Line{Text: string(data[start : i-1]), Term: CRLF})
			} else {
				lines = append(lines, Line{Text: string(data[start:i]), Term: LF})
			}
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, Line{Text: string(data[start:]), Term: NoTerminator})
	}
	return lines
}

// stripBOM removes a leading UTF-8 byte-order mark, if present. Only the
// UTF-8 form is relevant here: patch input is required to be UTF-8 text, so
// BOMOverride's job is reduced to "strip it if it's there, leave the bytes
// alone otherwise" rather than any real encoding conversion.
func stripBOM(data []byte) []byte {
	t := unicode.BOMOverride(transform.Nop)
	out, _, err := transform.Bytes(t, data)
	if err != nil {
		return data
	}
	return out
}

// Emit writes lines to w, terminating each according to policy. The terminator
// recorded on the final line is honored even under Preserve: a NoTerminator
// last line is written with no trailing bytes.
func Emit(w io.Writer, lines []Line, policy NewlinePolicy) error {
	bw := bufio.NewWriter(w)
	for _, l := range lines {
		if _, err := bw.WriteString(l.Text); err != nil {
			return err
		}
		if err := writeTerm(bw, l.Term, policy); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeTerm(w io.Writer, term Terminator, policy NewlinePolicy) error {
	var out string
	switch policy {
	case Preserve:
		out = term.String()
	case ForceLF:
		if term == NoTerminator {
			out = ""
		} else {
			out = "\n"
		}
	case ForceCRLF:
		if term == NoTerminator {
			out = ""
		} else {
			out = "\r\n"
		}
	case Native:
		if term == NoTerminator {
			out = ""
		} else {
			out = nativeTerminator
		}
	}
	_, err := io.WriteString(w, out)
	return err
}
