// Package driver turns a raw patch byte stream and a Config into a stream
// of Applier calls, then aggregates stdout diagnostics and the worst exit
// code seen across the whole run. Opening the patch source, stdin/stdout
// wiring, and argument parsing stay out of this package; main.go owns all
// of that and calls Run with already-read bytes.
package driver

import (
	"fmt"
	"io"

	"github.com/syou6162/go-patch/internal/applier"
	"github.com/syou6162/go-patch/internal/config"
	"github.com/syou6162/go-patch/internal/diffparse"
	"github.com/syou6162/go-patch/internal/fsys"
	"github.com/syou6162/go-patch/internal/logger"
	"github.com/syou6162/go-patch/internal/perrors"
)

// Result is what Run reports after consuming the whole patch stream.
type Result struct {
	// ExitCode is the process exit code the table assigns: 0, 1, or 2.
	ExitCode int

	// FatalMessage is non-empty exactly when ExitCode == 2 for a parse/IO
	// failure that aborted the run before any write. main.go renders it
	// as "patch: **** <FatalMessage>\n" on stderr.
	FatalMessage string
}

// Run parses patchData into a FilePatch stream and dispatches each FilePatch
// to a single Applier that holds one backed-up-files set, writing every
// diagnostic line to diagOut in order. contentOut is the destination for
// post-image bytes when cfg.Output is the literal "-"; it is otherwise
// unused, since a named --output target is written through fs instead.
func Run(patchData []byte, cfg config.Config, fs fsys.FileSystem, log *logger.Logger, diagOut, contentOut io.Writer) Result {
	if cfg.Ed {
		return Result{ExitCode: 2, FatalMessage: "ed format patches are not supported by this version of patch"}
	}

	patches, err := diffparse.Parse(patchData)
	if err != nil {
		return Result{ExitCode: exitCodeFor(err), FatalMessage: err.Error()}
	}

	backedUp := map[string]bool{}
	a := applier.New(fs, cfg, log, backedUp, contentOut)

	exitCode := 0
	for i := range patches {
		out := a.Apply(&patches[i], cfg.File)
		for _, d := range out.Diagnostics {
			fmt.Fprintln(diagOut, d)
		}
		if out.ExitCode > exitCode {
			exitCode = out.ExitCode
		}
	}
	return Result{ExitCode: exitCode}
}

func exitCodeFor(err error) int {
	if pe, ok := err.(*perrors.Error); ok {
		return pe.Kind.ExitCode()
	}
	return 2
}
