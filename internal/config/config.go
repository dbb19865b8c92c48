// Package config holds the configuration record argument parsing produces.
// Command-line parsing stays out of core scope; main.go is the sole
// producer of a Config.
package config

import "github.com/syou6162/go-patch/internal/lineio"

// ReadOnlyMode selects how the Applier handles a read-only target.
type ReadOnlyMode int

const (
	// ReadOnlyWarn prints a warning and patches anyway (default).
	ReadOnlyWarn ReadOnlyMode = iota
	// ReadOnlyIgnore patches silently.
	ReadOnlyIgnore
	// ReadOnlyFail refuses to patch and rejects the hunks.
	ReadOnlyFail
)

// ParseReadOnlyMode maps the --read-only flag value to a ReadOnlyMode.
func ParseReadOnlyMode(s string) (ReadOnlyMode, bool) {
	switch s {
	case "", "warn":
		return ReadOnlyWarn, true
	case "ignore":
		return ReadOnlyIgnore, true
	case "fail":
		return ReadOnlyFail, true
	default:
		return ReadOnlyWarn, false
	}
}

// RejectFormat selects the dialect .rej files are written in.
type RejectFormat int

const (
	// RejectUnified writes rejects in unified diff form (default).
	RejectUnified RejectFormat = iota
	// RejectContext writes rejects in context diff form.
	RejectContext
)

// ParseRejectFormat maps the --reject-format flag value to a RejectFormat.
func ParseRejectFormat(s string) (RejectFormat, bool) {
	switch s {
	case "", "unified":
		return RejectUnified, true
	case "context":
		return RejectContext, true
	default:
		return RejectUnified, false
	}
}

// Config is the full set of supported options, with GNU patch's
// conventional defaults.
type Config struct {
	Input      string // "" or "-" means stdin
	Output     string // "" means write in place; "-" means stdout
	RejectFile string // "" means derive from target name
	File       string // "" means no explicit positional target file

	Reverse bool
	Forward bool

	Backup bool
	Prefix string
	Suffix string // "" means ".orig" when Prefix is also ""

	Strip      int // -1 means "unspecified": basename for traditional, 1 for git
	StripIsSet bool

	Directory string // "" means no chdir

	DryRun bool
	Force  bool

	IgnoreWhitespace bool

	NewlineOutput lineio.NewlinePolicy
	ReadOnly      ReadOnlyMode
	RejectFormat  RejectFormat

	Ed bool

	MaxFuzz int
}

// Default returns a Config with every option at its GNU-patch-compatible
// default value.
func Default() Config {
	return Config{
		Strip:         -1,
		NewlineOutput: lineio.Preserve,
		ReadOnly:      ReadOnlyWarn,
		RejectFormat:  RejectUnified,
		MaxFuzz:       2,
	}
}
