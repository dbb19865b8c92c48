package diffparse

import (
	"strconv"
	"strings"
)

// decodePathField strips an optional trailing tab-separated timestamp from a
// --- / +++ (or *** / ---) header's path field, then decodes it. Quoted
// fields use C-style octal escapes ("\NNN" per byte), as git and diff(1)
// emit for paths containing non-printable or Unicode bytes; the decoded
// bytes are interpreted as UTF-8, matching shannonbooth/patch's behavior
// (see SPEC_FULL.md's supplemented-behavior section).
func decodePathField(field string) string {
	field = strings.TrimRight(field, "\r")
	if i := strings.IndexByte(field, '\t'); i >= 0 {
		field = field[:i]
	} else {
		field = strings.TrimRight(field, " ")
	}
	return decodeMaybeQuotedPath(field)
}

// decodeMaybeQuotedPath decodes a double-quoted, C-escaped path as git
// writes it (diff --git a/"..." b/"...", rename from "...", etc.), or
// returns s unchanged if it isn't quoted.
func decodeMaybeQuotedPath(s string) string {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	inner := s[1 : len(s)-1]
	var out strings.Builder
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c != '\\' || i+1 >= len(inner) {
			out.WriteByte(c)
			continue
		}
		i++
		switch inner[i] {
		case 'n':
			out.WriteByte('\n')
		case 't':
			out.WriteByte('\t')
		case '\\':
			out.WriteByte('\\')
		case '"':
			out.WriteByte('"')
		default:
			// Octal escape: up to 3 octal digits.
			j := i
			for j < len(inner) && j < i+3 && inner[j] >= '0' && inner[j] <= '7' {
				j++
			}
			if j > i {
				v, err := strconv.ParseUint(inner[i:j], 8, 8)
				if err == nil {
					out.WriteByte(byte(v))
					i = j - 1
					continue
				}
			}
			out.WriteByte(inner[i])
		}
	}
	return out.String()
}

// StripComponents removes up to n leading "/"-separated path components from
// p, the way patch(1)'s -p/--strip does. n <= 0 means "strip nothing
// further"; StripBasename reduces p to its final component.
func StripComponents(p string, n int) string {
	if n <= 0 {
		return p
	}
	parts := strings.Split(p, "/")
	if n >= len(parts) {
		return parts[len(parts)-1]
	}
	return strings.Join(parts[n:], "/")
}

// StripBasename returns p's final "/"-separated component, the default
// strip behavior for traditional (non-git) dialects.
func StripBasename(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}

// StripGitPrefix removes a single leading "a/" or "b/" component, the
// default strip for the git dialect.
func StripGitPrefix(p string) string {
	if rest, ok := strings.CutPrefix(p, "a/"); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(p, "b/"); ok {
		return rest
	}
	return p
}
