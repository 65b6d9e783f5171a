package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Exit codes.
const (
	exitOK      = 0
	exitChanged = 1 // --check and the file would change
	exitVerify  = 2 // --verify failed
	exitFault   = 3 // the engine abandoned the file
	exitUsage   = 4 // bad arguments or I/O failure
)

// defaultExtensions are the source files processed when no --ext is given.
var defaultExtensions = []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".mts", ".cts"}

// typedExtensions get VariantTypes under --types=auto.
var typedExtensions = map[string]bool{".ts": true, ".tsx": true, ".mts": true, ".cts": true}

var (
	opts       Options
	hookReason string
	hookFile   string
	exitCode   int
	logger     = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
)

var rootCmd = &cobra.Command{
	Use:   "tidyimports [flags] <FILE|DIR>...",
	Short: "Reorder the import block of JavaScript and TypeScript files",
	Long: `tidyimports reorders the leading import/export section of JavaScript and
TypeScript files into a canonical order and leaves every other line alone.

Statements are sorted by the length of their last line, then by module
path. Named members inside braces are sorted the same way. Comments and
const ... = import()/require() lines split statements into groups and stay
where they are. In TypeScript files, type-only imports are gathered into
one bucket.`,
	Args:              cobra.MinimumNArgs(1),
	PersistentPreRunE: loadSettings,
	RunE:              runTidy,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Tidy a buffer from stdin on save and print the edit as JSON",
	Long: `hook is the editor integration entry point. It reads the document text
from stdin, applies the save discipline (manual saves only) and prints
{"changed": bool, "start": n, "end": n, "newText": "..."} on stdout.`,
	Args: cobra.NoArgs,
	RunE: runHook,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.ConfigFile, "config", "", "Path to .tidyimports.toml or .tidyimports.yaml config file")
	pf.StringVar(&opts.Backend, "backend", BackendLine, "Statement scanner: line or token")
	pf.StringVar(&opts.Types, "types", "auto", "Type-only import handling: auto (by extension), on or off")
	pf.StringVar(&opts.TypePlacement, "type-placement", PlacementShortest, "Where the type-only bucket goes: shortest, first or last")
	pf.StringVar(&opts.TypeMarker, "type-marker", DefaultTypeMarker, "Comment line written before a type-only bucket of two or more imports")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "Log level (trace, debug, info, warn, error)")
	pf.BoolVarP(&opts.Quiet, "quiet", "q", false, "Suppress warnings")

	f := rootCmd.Flags()
	f.BoolVarP(&opts.Recursive, "recursive", "r", false, "Recursively process directories")
	f.BoolVarP(&opts.Write, "write", "w", false, "Write changes in-place")
	f.BoolVarP(&opts.Check, "check", "c", false, "Exit non-zero if a file would change (for CI)")
	f.BoolVarP(&opts.Diff, "diff", "d", false, "Print unified diff of changes")
	f.BoolVar(&opts.Verify, "verify", false, "Check that only the import block was reordered before writing")
	f.BoolVar(&opts.DryRun, "dry-run", false, "Report what would change without writing")
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "Describe the detected import block")
	f.StringSliceVar(&opts.Extensions, "ext", defaultExtensions, "File extensions to process")

	hookCmd.Flags().StringVar(&hookReason, "reason", SaveManual.String(), "Save reason: manual, after-delay, focus-out or window-change")
	hookCmd.Flags().StringVar(&hookFile, "filename", "", "Document file name, used to pick the source dialect")
	rootCmd.AddCommand(hookCmd)

	if info, ok := debug.ReadBuildInfo(); ok {
		rootCmd.Version = info.Main.Version
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitUsage)
	}
	os.Exit(exitCode)
}

// loadSettings merges the config file into opts for every flag the user did
// not set, validates the result and configures logging.
func loadSettings(cmd *cobra.Command, _ []string) error {
	setFlags := make(map[string]bool)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		setFlags[f.Name] = true
	})

	configPath := opts.ConfigFile
	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath != "" {
		cfg, err := LoadConfig(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to load config %s: %v\n", configPath, err)
		} else {
			MergeConfig(&opts, cfg, setFlags)
		}
	}

	if err := validateOptions(opts); err != nil {
		return err
	}

	level := opts.LogLevel
	if opts.Quiet {
		level = "error"
	}
	l, err := newLogger(level, os.Stderr)
	if err != nil {
		return err
	}
	logger = l
	if configPath != "" {
		logger.Debug("using config file", "config", configPath)
	}
	return nil
}

// newLogger builds a text logger; "trace" is one step below debug.
func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	var ll slog.Level
	if strings.EqualFold(level, "trace") {
		ll = slog.Level(-8)
	} else if err := ll.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ll})), nil
}

func runTidy(_ *cobra.Command, args []string) error {
	files, err := collectFiles(args, opts.Recursive, opts.Extensions)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no source files found")
	}

	for _, file := range files {
		code := processFile(file, opts)
		if code > exitCode {
			exitCode = code
		}
	}
	return nil
}

func runHook(cmd *cobra.Command, _ []string) error {
	reason, err := ParseSaveReason(hookReason)
	if err != nil {
		return err
	}
	text, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}

	hookOpts := opts
	hookOpts.Variant = variantFor(hookFile, opts.Types)
	hook := &SaveHook{Opts: hookOpts, Diag: newSlogDiagnostics(logger.With("file", hookFile))}

	edit, changed := hook.WillSave(string(text), reason)
	payload, err := encodeEdit(edit, changed)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(payload))
	return nil
}

// variantFor picks the dialect for a file from the --types setting.
func variantFor(file, types string) Variant {
	switch types {
	case "on":
		return VariantTypes
	case "off":
		return VariantPlain
	}
	if typedExtensions[strings.ToLower(filepath.Ext(file))] {
		return VariantTypes
	}
	return VariantPlain
}

func processFile(file string, opts Options) int {
	info, err := os.Stat(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading %s: %v\n", file, err)
		return exitUsage
	}
	fileMode := info.Mode()

	content, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading %s: %v\n", file, err)
		return exitUsage
	}

	original := string(content)
	opts.Variant = variantFor(file, opts.Types)

	res, warnings, err := Tidy(original, opts)
	if err != nil {
		logger.Error("import block left unchanged", "file", file, "error", err)
		var fault *EngineFault
		if errors.As(err, &fault) {
			return exitFault
		}
		return exitUsage
	}

	if !opts.Quiet {
		for _, w := range warnings {
			logger.Warn(w, "file", file)
		}
	}

	if opts.Verbose {
		fmt.Fprintf(os.Stderr, "%s:\n%s", file, VerboseReport(original, opts))
	}

	tidied := res.Apply(original)

	// No changes needed
	if !res.Changed {
		if !opts.Quiet && (opts.Check || opts.DryRun) {
			fmt.Fprintf(os.Stderr, "%s: no changes needed\n", file)
		}
		if !opts.Write && !opts.Check && !opts.DryRun && !opts.Diff {
			fmt.Print(original)
		}
		return exitOK
	}

	if opts.Verify && !opts.DryRun {
		if err := Verify(original, tidied, opts); err != nil {
			fmt.Fprintf(os.Stderr, "error: %s: verification failed: %v\n", file, err)
			return exitVerify
		}
	}

	if opts.Check {
		fmt.Fprintf(os.Stderr, "%s: would change\n", file)
		if opts.Diff {
			fmt.Print(DiffStrings(original, tidied, file+" (original)", file+" (tidied)"))
		}
		return exitChanged
	}

	if opts.DryRun {
		fmt.Fprintf(os.Stderr, "%s: would change\n", file)
		if opts.Diff {
			fmt.Print(DiffStrings(original, tidied, file+" (original)", file+" (tidied)"))
		}
		return exitOK
	}

	if opts.Write {
		if err := os.WriteFile(file, []byte(tidied), fileMode.Perm()); err != nil {
			fmt.Fprintf(os.Stderr, "error writing %s: %v\n", file, err)
			return exitUsage
		}
		if opts.Diff {
			fmt.Print(DiffStrings(original, tidied, file+" (original)", file+" (tidied)"))
		}
		if !opts.Quiet {
			fmt.Fprintf(os.Stderr, "%s: tidied\n", file)
		}
		return exitOK
	}

	if opts.Diff {
		fmt.Print(DiffStrings(original, tidied, file+" (original)", file+" (tidied)"))
		return exitOK
	}

	// Default: print to stdout
	fmt.Print(tidied)
	return exitOK
}

// collectFiles expands args into source files. Directories are read one
// level deep unless recursive; node_modules and hidden directories are
// skipped when walking.
func collectFiles(args []string, recursive bool, exts []string) ([]string, error) {
	var files []string

	wanted := make(map[string]bool, len(exts))
	for _, ext := range exts {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		wanted[strings.ToLower(ext)] = true
	}
	matches := func(name string) bool {
		return wanted[strings.ToLower(filepath.Ext(name))]
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if !info.IsDir() {
			if !matches(arg) {
				return nil, fmt.Errorf("%s is not a JavaScript or TypeScript file", arg)
			}
			files = append(files, arg)
			continue
		}

		if !recursive {
			entries, err := os.ReadDir(arg)
			if err != nil {
				return nil, fmt.Errorf("reading directory %s: %w", arg, err)
			}
			for _, entry := range entries {
				if !entry.IsDir() && matches(entry.Name()) {
					files = append(files, filepath.Join(arg, entry.Name()))
				}
			}
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				name := d.Name()
				if path != arg && (name == "node_modules" || strings.HasPrefix(name, ".")) {
					return filepath.SkipDir
				}
				return nil
			}
			if matches(d.Name()) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking directory %s: %w", arg, err)
		}
	}

	return files, nil
}
