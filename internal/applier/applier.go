// Package applier orchestrates one FilePatch end to end: locate target,
// load, apply hunks, decide output, write backups/rejects.
package applier

import (
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/syou6162/go-patch/internal/config"
	"github.com/syou6162/go-patch/internal/diffparse"
	"github.com/syou6162/go-patch/internal/fsys"
	"github.com/syou6162/go-patch/internal/lineio"
	"github.com/syou6162/go-patch/internal/locator"
	"github.com/syou6162/go-patch/internal/logger"
	"github.com/syou6162/go-patch/internal/reject"
)

// Outcome reports what happened applying one FilePatch.
type Outcome struct {
	// Diagnostics are the stdout lines this FilePatch produced, in order.
	Diagnostics []string
	// ExitCode is this FilePatch's contribution to the Driver's aggregated
	// exit code: 0 or 1 (the Applier never produces 2).
	ExitCode int
}

// Applier holds the collaborators and run-scoped state (the backed-up-file
// set) shared across every FilePatch in one invocation.
type Applier struct {
	FS       fsys.FileSystem
	Config   config.Config
	Logger   *logger.Logger
	BackedUp map[string]bool

	// Stdout is where post-image content is written when Config.Output is
	// the literal "-". Diagnostics never go here; the Driver writes those
	// to whatever writer main.go gave it.
	Stdout io.Writer
}

// New creates an Applier. backedUp is owned by the caller (the Driver) and
// shared across every FilePatch processed in the run, per "small
// in-process set of files already backed up". stdout is only consulted
// when cfg.Output == "-".
func New(fs fsys.FileSystem, cfg config.Config, log *logger.Logger, backedUp map[string]bool, stdout io.Writer) *Applier {
	return &Applier{FS: fs, Config: cfg, Logger: log, BackedUp: backedUp, Stdout: stdout}
}

// Apply processes one FilePatch, returning its diagnostics and exit-code
// contribution. positional is the explicit file argument the user supplied
// on the command line, if any.
func (a *Applier) Apply(fp *diffparse.FilePatch, positional string) Outcome {
	if fp.Operation == diffparse.BinaryUnsupported {
		name := fp.NewPath
		if name == diffparse.DevNull {
			name = fp.OldPath
		}
		return Outcome{
			Diagnostics: []string{fmt.Sprintf("File %s: git binary diffs are not supported.", name)},
			ExitCode:    1,
		}
	}

	plan := planTarget(fp, a.Config, a.FS, positional)

	if fp.IsPureRename() {
		if out, handled := a.tryAlreadyRenamed(fp, plan); handled {
			return out
		}
	}

	var preImage []byte
	var preInfo fsys.FileInfo
	if plan.ReadPath != "" {
		var statErr error
		preInfo, statErr = a.FS.Stat(plan.ReadPath)
		if statErr == nil && preInfo.Exists && !preInfo.IsRegular {
			return a.refuseNotRegular(fp, plan)
		}
		if statErr == nil && preInfo.Exists {
			data, err := a.FS.ReadFile(plan.ReadPath)
			if err == nil {
				preImage = data
			}
		}
	}

	readOnly := preInfo.Exists && preInfo.Mode.Perm()&0o200 == 0
	if readOnly && a.Config.ReadOnly == config.ReadOnlyFail {
		return a.refuseReadOnly(fp, plan)
	}

	targetLines := lineio.SplitLines(preImage)
	applyResult := applyHunks(targetLines, fp.Hunks, a.locatorPolicy(), a.Logger, a.Config.Reverse)

	var diags []string
	if readOnly && a.Config.ReadOnly == config.ReadOnlyWarn {
		diags = append(diags, fmt.Sprintf("File %s is read-only; trying to patch anyway", plan.DisplayName))
	}

	diags = append(diags, a.commitLine(fp, plan))
	diags = append(diags, applyResult.Diagnostics...)

	exitCode := 0
	if len(applyResult.Failed) > 0 {
		exitCode = 1
	}

	if a.Config.DryRun {
		return Outcome{Diagnostics: diags, ExitCode: exitCode}
	}

	mode := a.targetMode(fp, preInfo, readOnly)

	switch {
	case fp.Operation == diffparse.Delete:
		residueLines := applyResult.Lines
		switch {
		case a.Config.Output != "":
			a.writeLines(plan.WritePath, residueLines, mode)
			if len(residueLines) != 0 {
				diags = append(diags, fmt.Sprintf("Not deleting file %s as content differs from patch", plan.DisplayName))
				exitCode = 1
			}
		case len(residueLines) == 0:
			a.writeBackup(fp, plan, preImage)
			_ = a.FS.Remove(plan.WritePath)
			a.pruneEmptyDirs(path.Dir(plan.WritePath))
		default:
			a.writeBackup(fp, plan, preImage)
			a.writeLines(plan.WritePath, residueLines, mode)
			diags = append(diags, fmt.Sprintf("Not deleting file %s as content differs from patch", plan.DisplayName))
			exitCode = 1
		}
	case fp.Operation == diffparse.Rename, fp.Operation == diffparse.Copy:
		a.writeBackup(fp, plan, preImage)
		if dir := path.Dir(plan.WritePath); dir != "." && dir != "/" {
			_ = a.FS.MkdirAll(dir, 0o755)
		}
		if fp.IsPureRename() {
			_ = a.FS.Rename(plan.ReadPath, plan.WritePath)
		} else {
			a.writeLines(plan.WritePath, applyResult.Lines, mode)
			if fp.Operation == diffparse.Rename {
				_ = a.FS.Remove(plan.ReadPath)
			}
		}
	default:
		a.writeBackup(fp, plan, preImage)
		a.writeLines(plan.WritePath, applyResult.Lines, mode)
	}

	if len(applyResult.Failed) > 0 {
		diags = append(diags, a.writeReject(fp, plan, applyResult.Failed, len(fp.Hunks), "FAILED"))
	}

	return Outcome{Diagnostics: diags, ExitCode: exitCode}
}

func (a *Applier) locatorPolicy() locator.Policy {
	return locator.Policy{
		MaxFuzz:          a.Config.MaxFuzz,
		IgnoreWhitespace: a.Config.IgnoreWhitespace,
		Forward:          a.Config.Forward,
	}
}

func (a *Applier) tryAlreadyRenamed(fp *diffparse.FilePatch, plan targetPlan) (Outcome, bool) {
	srcInfo, _ := a.FS.Stat(plan.ReadPath)
	if srcInfo.Exists {
		return Outcome{}, false
	}
	dstData, err := a.FS.ReadFile(plan.WritePath)
	if err != nil {
		return Outcome{}, false
	}
	_ = dstData // pure rename carries no hunks; presence of dst with src absent is enough
	diag := fmt.Sprintf("patching file %s (already renamed from %s)", plan.DisplayName, plan.OldDisplay)
	return Outcome{Diagnostics: []string{diag}, ExitCode: 0}, true
}

func (a *Applier) refuseNotRegular(fp *diffparse.FilePatch, plan targetPlan) Outcome {
	diags := []string{fmt.Sprintf("File %s is not a regular file -- refusing to patch", plan.DisplayName)}
	if !a.Config.DryRun {
		diags = append(diags, a.writeReject(fp, plan, fp.Hunks, len(fp.Hunks), "ignored"))
	}
	return Outcome{Diagnostics: diags, ExitCode: 1}
}

func (a *Applier) refuseReadOnly(fp *diffparse.FilePatch, plan targetPlan) Outcome {
	diags := []string{fmt.Sprintf("File %s is read-only; refusing to patch", plan.DisplayName)}
	if !a.Config.DryRun {
		diags = append(diags, a.writeReject(fp, plan, fp.Hunks, len(fp.Hunks), "ignored"))
	}
	return Outcome{Diagnostics: diags, ExitCode: 1}
}

// commitLine renders the "patching file ..."/"checking file ..." line with
// its renamed/copied/read-from annotations, per diagnostic list.
func (a *Applier) commitLine(fp *diffparse.FilePatch, plan targetPlan) string {
	verb := "patching"
	if a.Config.DryRun {
		verb = "checking"
	}
	displayName := plan.DisplayName
	if a.Config.Output != "" {
		displayName = a.Config.Output
	}
	line := fmt.Sprintf("%s file %s", verb, displayName)
	switch fp.Operation {
	case diffparse.Rename:
		line += fmt.Sprintf(" (renamed from %s)", plan.OldDisplay)
	case diffparse.Copy:
		line += fmt.Sprintf(" (copied from %s)", plan.OldDisplay)
	}
	if a.Config.Output != "" && a.Config.Output != plan.WritePath {
		line += fmt.Sprintf(" (read from %s)", plan.ReadPath)
	}
	return line
}

func (a *Applier) targetMode(fp *diffparse.FilePatch, preInfo fsys.FileInfo, readOnly bool) os.FileMode {
	if fp.NewMode != 0 {
		return os.FileMode(fp.NewMode & 0o7777)
	}
	if preInfo.Exists {
		return preInfo.Mode
	}
	return 0o644
}

func (a *Applier) writeLines(writePath string, lines []lineio.Line, mode os.FileMode) {
	var b strings.Builder
	_ = lineio.Emit(&b, lines, a.Config.NewlineOutput)
	if a.Config.Output == "-" {
		_, _ = io.WriteString(a.Stdout, b.String())
		return
	}
	if a.Config.Output != "" {
		writePath = a.Config.Output
	}
	_ = a.FS.WriteFile(writePath, []byte(b.String()), mode)
}

func (a *Applier) writeBackup(fp *diffparse.FilePatch, plan targetPlan, preImage []byte) {
	if !a.Config.Backup || fp.IsPureRename() {
		return
	}
	if a.BackedUp[plan.DisplayName] {
		return
	}
	a.BackedUp[plan.DisplayName] = true
	_ = a.FS.WriteFile(backupName(plan.DisplayName, a.Config), preImage, 0o644)
}

func (a *Applier) pruneEmptyDirs(dir string) {
	for dir != "." && dir != "/" && dir != "" {
		if err := a.FS.RemoveEmptyDir(dir); err != nil {
			return
		}
		dir = path.Dir(dir)
	}
}

// writeReject renders and writes the .rej file for failed, then returns the
// "N out of M hunk(s) <verb> -- saving rejects to file <rej>" diagnostic
// line. verb is "FAILED" for hunks that were attempted and didn't locate, or
// "ignored" for hunks that were never attempted because the whole file was
// refused (read-only/not-regular).
func (a *Applier) writeReject(fp *diffparse.FilePatch, plan targetPlan, failed []diffparse.Hunk, total int, verb string) string {
	rejectPath := a.Config.RejectFile
	if rejectPath == "" {
		rejectPath = plan.DisplayName + ".rej"
	}
	data := reject.Render(fp.OldPath, fp.NewPath, a.Config.RejectFormat, failed)
	_ = a.FS.WriteFile(rejectPath, data, 0o644)

	word := "hunk"
	if total != 1 {
		word = "hunks"
	}
	return fmt.Sprintf("%d out of %d %s %s -- saving rejects to file %s", len(failed), total, word, verb, rejectPath)
}
