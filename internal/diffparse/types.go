// Package diffparse turns a raw patch byte stream into an ordered sequence
// of FilePatch records, dialect-tagged as Unified, Context, or Git. The git
// dialect is parsed by delegating the extended-header and hunk-body work to
// github.com/bluekeyes/go-gitdiff, adapted into this package's own
// FilePatch/Hunk model; the unified and context dialects — which go-gitdiff
// does not speak — are hand-rolled on top of internal/lineio.
package diffparse

import "github.com/syou6162/go-patch/internal/lineio"

// Format tags which of the three supported dialects a FilePatch was parsed
// from, a value chosen once per FilePatch that downstream code switches on.
type Format int

const (
	Unified Format = iota
	Context
	Git
)

func (f Format) String() string {
	switch f {
	case Unified:
		return "unified"
	case Context:
		return "context"
	case Git:
		return "git"
	default:
		return "unknown"
	}
}

// Operation is the high-level effect a FilePatch has on the file tree.
type Operation int

const (
	Modify Operation = iota
	Create
	Delete
	Rename
	Copy
	ModeChangeOnly
	BinaryUnsupported
)

// DevNull is the sentinel path meaning "no file" in --- / +++ headers.
const DevNull = "/dev/null"

// LineKind tags one HunkLine's role.
type LineKind int

const (
	ContextLine LineKind = iota
	DeleteLine
	InsertLine
)

// HunkLine is one line of a Hunk's body. Term is the terminator of the
// patch's own source line, unless a trailing "\ No newline at end of file"
// marker overrides it to NoTerminator. Inserted lines carry Term into the
// output; context lines in the output keep the target file's own line and
// terminator.
type HunkLine struct {
	Kind LineKind
	Text string
	Term lineio.Terminator
}

// Hunk is one contiguous change, with the header line-number/count fields
// a dialect parser fills in directly. For the unified and git dialects
// OldCount/NewCount are the header's declared values (with an absent count
// spelled out as 1); the context dialect's parser sets them to the number
// of lines it read in each half.
type Hunk struct {
	OldStart, OldCount int
	NewStart, NewCount int
	Section            string // optional text trailing a unified "@@ ... @@" header
	Lines              []HunkLine
}

// OldLines returns the Context+Delete lines, in order: the sequence the
// Hunk Locator matches against the target file, and the count equals
// OldCount.
func (h *Hunk) OldLines() []HunkLine {
	out := make([]HunkLine, 0, h.OldCount)
	for _, l := range h.Lines {
		if l.Kind == ContextLine || l.Kind == DeleteLine {
			out = append(out, l)
		}
	}
	return out
}

// NewLines returns the Context+Insert lines, in order: the post-image this
// hunk splices into the target, with count equal to NewCount.
func (h *Hunk) NewLines() []HunkLine {
	out := make([]HunkLine, 0, h.NewCount)
	for _, l := range h.Lines {
		if l.Kind == ContextLine || l.Kind == InsertLine {
			out = append(out, l)
		}
	}
	return out
}

// Inverted returns a copy of h with Delete and Insert swapped, used by the
// Applier to apply a patch backwards under --reverse.
func (h *Hunk) Inverted() *Hunk {
	inv := &Hunk{
		OldStart: h.NewStart, OldCount: h.NewCount,
		NewStart: h.OldStart, NewCount: h.OldCount,
		Section: h.Section,
		Lines:   make([]HunkLine, len(h.Lines)),
	}
	for i, l := range h.Lines {
		switch l.Kind {
		case DeleteLine:
			l.Kind = InsertLine
		case InsertLine:
			l.Kind = DeleteLine
		}
		inv.Lines[i] = l
	}
	return inv
}

// FilePatch is one file's worth of patch content: identity, mode/index
// metadata, and the hunks to apply.
type FilePatch struct {
	OldPath, NewPath   string
	Operation          Operation
	OldMode, NewMode   uint32 // 0 means absent
	IndexOld, IndexNew string
	Format             Format
	Hunks              []Hunk

	// Similarity is the git "similarity index" percentage for a rename or
	// copy, or -1 if the dialect doesn't report one.
	Similarity int
}

// IsPureRename reports a rename with no hunks and a full-content match,
// the "no backup, no content rewrite" case.
func (fp *FilePatch) IsPureRename() bool {
	return fp.Operation == Rename && len(fp.Hunks) == 0
}
