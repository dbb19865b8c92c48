package diffparse

import (
	"bytes"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"

	"github.com/syou6162/go-patch/internal/lineio"
	"github.com/syou6162/go-patch/internal/perrors"
)

// parseGitStream re-serializes lines[i:] (exploiting Emit's exact inverse of
// SplitLines) and hands it to go-gitdiff, which owns all of the git
// extended-header semantics: rename/copy detection, mode changes, index
// lines, and binary-patch recognition. Its *gitdiff.File
// results are adapted into this package's FilePatch/Hunk model so the rest
// of go-patch never has to know a hunk came from go-gitdiff.
func parseGitStream(lines []lineio.Line, i int) ([]FilePatch, error) {
	// go-gitdiff decodes and inflates a "GIT binary patch" payload and fails
	// the whole parse on one it cannot read. Binary patches are never applied,
	// so each one is handed over as a data-less "Binary files differ" marker.
	src := make([]lineio.Line, 0, len(lines)-i)
	for j := i; j < len(lines); j++ {
		src = append(src, lines[j])
		if lines[j].Text == "GIT binary patch" {
			src[len(src)-1].Text = "Binary files differ"
			for j+1 < len(lines) && !strings.HasPrefix(lines[j+1].Text, "diff --git ") {
				j++
			}
		}
	}

	var buf bytes.Buffer
	if err := lineio.Emit(&buf, src, lineio.Preserve); err != nil {
		return nil, perrors.Wrap(perrors.KindParseFatal, "failed to re-serialize git patch stream", err)
	}

	files, _, err := gitdiff.Parse(&buf)
	if err != nil {
		return nil, perrors.Wrap(perrors.KindParseFatal, "failed to parse git patch", err)
	}

	out := make([]FilePatch, 0, len(files))
	for _, f := range files {
		out = append(out, adaptGitFile(f))
	}
	return out, nil
}

func adaptGitFile(f *gitdiff.File) FilePatch {
	fp := FilePatch{
		Format:     Git,
		OldPath:    gitPath(f.OldName),
		NewPath:    gitPath(f.NewName),
		OldMode:    uint32(f.OldMode),
		NewMode:    uint32(f.NewMode),
		IndexOld:   f.OldOIDPrefix,
		IndexNew:   f.NewOIDPrefix,
		Similarity: -1,
	}

	switch {
	case f.IsDelete:
		fp.Operation = Delete
		fp.NewPath = DevNull
	case f.IsNew:
		fp.Operation = Create
		fp.OldPath = DevNull
	case f.IsRename:
		fp.Operation = Rename
		fp.Similarity = f.Score
	case f.IsCopy:
		fp.Operation = Copy
		fp.Similarity = f.Score
	default:
		fp.Operation = Modify
	}

	if f.IsBinary {
		fp.Operation = BinaryUnsupported
		return fp
	}

	if fp.Operation == Modify && len(f.TextFragments) == 0 && f.OldMode != 0 && f.NewMode != 0 && f.OldMode != f.NewMode {
		fp.Operation = ModeChangeOnly
		return fp
	}

	for _, frag := range f.TextFragments {
		fp.Hunks = append(fp.Hunks, adaptFragment(frag))
	}
	return fp
}

// gitPath strips the prefix-less "a/"/"b/" names go-gitdiff returns for
// /dev/null sides back to the DevNull sentinel used throughout this
// package, and leaves real paths untouched (go-gitdiff already decodes
// quoted/escaped paths itself).
func gitPath(name string) string {
	if name == "" || name == "/dev/null" {
		return DevNull
	}
	return name
}

func adaptFragment(frag *gitdiff.TextFragment) Hunk {
	h := Hunk{
		OldStart: int(frag.OldPosition),
		OldCount: int(frag.OldLines),
		NewStart: int(frag.NewPosition),
		NewCount: int(frag.NewLines),
		Section:  frag.Comment,
	}
	for _, l := range frag.Lines {
		text, term := splitGitLineTerm(l.Line)
		var kind LineKind
		switch l.Op {
		case gitdiff.OpAdd:
			kind = InsertLine
		case gitdiff.OpDelete:
			kind = DeleteLine
		default:
			kind = ContextLine
		}
		h.Lines = append(h.Lines, HunkLine{Kind: kind, Text: text, Term: term})
	}
	return h
}

// splitGitLineTerm splits a go-gitdiff fragment line's raw text (which
// retains whatever terminator the underlying file content had, or none at
// the true end of a no-trailing-newline file) into text and Terminator.
func splitGitLineTerm(s string) (string, lineio.Terminator) {
	if strings.HasSuffix(s, "\r\n") {
		return s[:len(s)-2], lineio.CRLF
	}
	if strings.HasSuffix(s, "\n") {
		return s[:len(s)-1], lineio.LF
	}
	return s, lineio.NoTerminator
}
