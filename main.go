// Command patch is a workalike for the Unix patch(1) utility: it reads a
// patch file describing a set of changes and applies them to a working
// directory. This file owns everything outside the core engine: flag
// parsing, help/version text, and opening the patch source and
// stdout/stderr.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/syou6162/go-patch/internal/config"
	"github.com/syou6162/go-patch/internal/driver"
	"github.com/syou6162/go-patch/internal/fsys"
	"github.com/syou6162/go-patch/internal/lineio"
	"github.com/syou6162/go-patch/internal/logger"
)

const (
	versionText = "patch 0.0.1\nCopyright (C) 2022 Shannon Booth\n"
	helpText    = "patch - (C) 2022 Shannon Booth\n\n" +
		"patch reads a patch file containing a difference (diff) and applies it to files.\n\n" +
		"Usage: patch [OPTION]... [FILE]\n\n" +
		"Options:\n" +
		"  -i, --input <file>          patch source; '-' or omitted means stdin\n" +
		"  -o, --output <file>         write result to file; '-' means stdout\n" +
		"  -r, --reject-file <file>    override .rej destination\n" +
		"  -R, --reverse               try the patch inverted first\n" +
		"  -N, --forward               skip already-applied hunks without prompting\n" +
		"  -b, --backup                save pre-image as <name><suffix>\n" +
		"      --prefix <s>            prefix for backup name\n" +
		"      --suffix <s>            suffix for backup name (default .orig)\n" +
		"  -p, --strip <n>             strip n leading path components\n" +
		"  -d, --directory <dir>       chdir before operating\n" +
		"      --dry-run               no writes; print what would happen\n" +
		"  -f, --force                 assume defaults; never prompt\n" +
		"  -l, --ignore-whitespace     whitespace-insensitive matching\n" +
		"      --newline-output <m>    preserve|lf|crlf|native\n" +
		"      --read-only <m>         warn|ignore|fail\n" +
		"      --reject-format <m>     unified|context\n" +
		"      --ed                    fatal: ed patches unsupported\n" +
		"      --version               print version and exit\n" +
		"      --help                  print this help and exit\n"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin *os.File, stdout, stderr *os.File) int {
	for _, a := range args {
		switch a {
		case "--version":
			fmt.Fprint(stdout, versionText)
			return 0
		case "--help":
			fmt.Fprint(stdout, helpText)
			return 0
		}
	}

	cfg := config.Default()
	positional, err := parseArgs(args, &cfg)
	if err != nil {
		fmt.Fprintf(stderr, "patch: **** unknown commandline argument %s\n", err.(*unknownArgError).arg)
		fmt.Fprintf(stderr, "Try 'patch --help' for more information.\n")
		return 2
	}
	if positional != "" {
		cfg.File = positional
	}

	fs := fsys.NewOS(cfg.Directory)
	if cfg.Directory != "" {
		if st, statErr := fs.Stat("."); statErr != nil || !st.Exists || !st.IsDir {
			fmt.Fprintf(stderr, "patch: **** cannot chdir to %s\n", cfg.Directory)
			return 2
		}
	}

	patchData, err := readPatchSource(cfg.Input, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "patch: **** %v\n", err)
		return 2
	}

	log := logger.NewFromEnv()
	diagOut := io.Writer(stdout)
	if cfg.Output == "-" {
		diagOut = stderr
	}
	res := driver.Run(patchData, cfg, fs, log, diagOut, stdout)
	if res.FatalMessage != "" {
		fmt.Fprintf(stderr, "patch: **** %s\n", res.FatalMessage)
	}
	return res.ExitCode
}

func readPatchSource(input string, stdin *os.File) ([]byte, error) {
	if input == "" || input == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(input)
}

type unknownArgError struct{ arg string }

func (e *unknownArgError) Error() string {
	return fmt.Sprintf("unknown commandline argument %s", e.arg)
}

// parseArgs hand-rolls GNU-style long/short option parsing rather than the
// standard flag package: the unknown-argument message and exit code
// must be produced exactly, and patch(1)'s options mix single-dash short
// forms with double-dash long forms in a way flag.FlagSet does not model
// directly (e.g. -pN with no space, -R and --reverse as aliases).
func parseArgs(args []string, cfg *config.Config) (positional string, err error) {
	takesValue := map[string]bool{
		"-i": true, "--input": true,
		"-o": true, "--output": true,
		"-r": true, "--reject-file": true,
		"-p": true, "--strip": true,
		"-d": true, "--directory": true,
		"--prefix": true, "--suffix": true,
		"--newline-output": true,
		"--read-only":      true,
		"--reject-format":  true,
	}

	for i := 0; i < len(args); i++ {
		a := args[i]
		if !strings.HasPrefix(a, "-") || a == "-" {
			positional = a
			continue
		}

		name, inlineVal, hasInline := splitInline(a)
		value := inlineVal
		needValue := takesValue[name]
		if needValue && !hasInline {
			if i+1 >= len(args) {
				return "", &unknownArgError{arg: a}
			}
			i++
			value = args[i]
		}

		switch name {
		case "-i", "--input":
			cfg.Input = value
		case "-o", "--output":
			cfg.Output = value
		case "-r", "--reject-file":
			cfg.RejectFile = value
		case "-R", "--reverse":
			cfg.Reverse = true
		case "-N", "--forward":
			cfg.Forward = true
		case "-b", "--backup":
			cfg.Backup = true
		case "--prefix":
			cfg.Prefix = value
		case "--suffix":
			cfg.Suffix = value
		case "-p", "--strip":
			n, convErr := strconv.Atoi(value)
			if convErr != nil {
				return "", &unknownArgError{arg: a}
			}
			cfg.Strip = n
			cfg.StripIsSet = true
		case "-d", "--directory":
			cfg.Directory = value
		case "--dry-run":
			cfg.DryRun = true
		case "-f", "--force":
			cfg.Force = true
		case "-l", "--ignore-whitespace":
			cfg.IgnoreWhitespace = true
		case "--newline-output":
			policy, ok := lineio.ParseNewlinePolicy(value)
			if !ok {
				return "", &unknownArgError{arg: a}
			}
			cfg.NewlineOutput = policy
		case "--read-only":
			mode, ok := config.ParseReadOnlyMode(value)
			if !ok {
				return "", &unknownArgError{arg: a}
			}
			cfg.ReadOnly = mode
		case "--reject-format":
			format, ok := config.ParseRejectFormat(value)
			if !ok {
				return "", &unknownArgError{arg: a}
			}
			cfg.RejectFormat = format
		case "--ed":
			cfg.Ed = true
		default:
			if strings.HasPrefix(a, "-p") && len(a) > 2 {
				n, convErr := strconv.Atoi(a[2:])
				if convErr == nil {
					cfg.Strip = n
					cfg.StripIsSet = true
					continue
				}
			}
			return "", &unknownArgError{arg: a}
		}
	}
	return positional, nil
}

// splitInline splits a "--name=value" or "-pN" style argument into its
// option name and inline value, if any.
func splitInline(a string) (name, value string, hasInline bool) {
	if idx := strings.Index(a, "="); idx != -1 && strings.HasPrefix(a, "--") {
		return a[:idx], a[idx+1:], true
	}
	return a, "", false
}
