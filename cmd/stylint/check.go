package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"stylint/internal/config"
	"stylint/internal/diag"
	"stylint/internal/diagfmt"
	"stylint/internal/driver"
	"stylint/internal/lint"
	"stylint/internal/observ"
	"stylint/internal/rules"
	"stylint/internal/version"
)

// defaultMaxDiagnostics applies when neither the flag nor the config sets a cap.
const defaultMaxDiagnostics = 100

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] <file|directory>...",
		Short: "Lint JavaScript files or directories",
		Long:  `Lint JavaScript sources. Directories are searched for .js, .mjs, .cjs and .jsx files.`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCheck,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().Bool("parallel-walk", false, "also lint top-level statements of each file in parallel")
	cmd.Flags().Bool("no-warnings", false, "drop warnings from the output")
	cmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	cmd.Flags().String("path-mode", "auto", "how file paths are printed (auto|absolute|relative|basename)")
	cmd.Flags().StringArray("rule", nil, "enable or override a rule: id or id=warning|error|off (repeatable)")
	cmd.Flags().Bool("cache", false, "reuse results of unchanged files from the disk cache")
	cmd.Flags().String("cache-dir", "", "cache directory (default $XDG_CACHE_HOME/stylint)")
	cmd.Flags().String("ui", "auto", "progress UI on stderr (auto|on|off)")
	return cmd
}

type checkFlags struct {
	format           string
	jobs             int
	parallelWalk     bool
	noWarnings       bool
	warningsAsErrors bool
	withNotes        bool
	pathMode         diagfmt.PathMode
	overrides        []string
	cache            bool
	cacheDir         string
	ui               uiMode
	maxDiagnostics   int
	maxChanged       bool
	timings          bool
	quiet            bool
	configPath       string
}

func readCheckFlags(cmd *cobra.Command) (checkFlags, error) {
	var f checkFlags
	var err error
	if f.format, err = cmd.Flags().GetString("format"); err != nil {
		return f, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch f.format {
	case "pretty", "short", "json", "sarif":
	default:
		return f, fmt.Errorf("unknown format: %s", f.format)
	}
	if f.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return f, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if f.parallelWalk, err = cmd.Flags().GetBool("parallel-walk"); err != nil {
		return f, fmt.Errorf("failed to get parallel-walk flag: %w", err)
	}
	if f.noWarnings, err = cmd.Flags().GetBool("no-warnings"); err != nil {
		return f, fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	if f.warningsAsErrors, err = cmd.Flags().GetBool("warnings-as-errors"); err != nil {
		return f, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if f.noWarnings && f.warningsAsErrors {
		return f, errors.New("no-warnings and warnings-as-errors flags cannot be used together")
	}
	if f.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return f, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	pathMode, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return f, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	var ok bool
	if f.pathMode, ok = diagfmt.ParsePathMode(pathMode); !ok {
		return f, fmt.Errorf("invalid --path-mode value %q", pathMode)
	}
	if f.overrides, err = cmd.Flags().GetStringArray("rule"); err != nil {
		return f, fmt.Errorf("failed to get rule flag: %w", err)
	}
	if f.cache, err = cmd.Flags().GetBool("cache"); err != nil {
		return f, fmt.Errorf("failed to get cache flag: %w", err)
	}
	if f.cacheDir, err = cmd.Flags().GetString("cache-dir"); err != nil {
		return f, fmt.Errorf("failed to get cache-dir flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return f, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.ui, err = readUIMode(uiValue); err != nil {
		return f, err
	}

	root := cmd.Root().PersistentFlags()
	if f.maxDiagnostics, err = root.GetInt("max-diagnostics"); err != nil {
		return f, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	f.maxChanged = root.Changed("max-diagnostics")
	if f.timings, err = root.GetBool("timings"); err != nil {
		return f, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if f.quiet, err = root.GetBool("quiet"); err != nil {
		return f, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if f.configPath, err = root.GetString("config"); err != nil {
		return f, fmt.Errorf("failed to get config flag: %w", err)
	}
	return f, nil
}

// loadConfig reads --config, or discovers the nearest config file from the
// first target.
func loadConfig(path, start string) (*config.File, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.Discover(start)
}

// configureRules turns the config plus --rule flags into the active registry.
func configureRules(cfg *config.File, overrides []string) (*lint.Registry, error) {
	sel, err := cfg.Selection(overrides)
	if err != nil {
		return nil, err
	}
	reg, err := lint.Configure(rules.Catalog(), sel)
	if err != nil {
		if cfg.Path != "" {
			return nil, fmt.Errorf("%s: %w", cfg.Path, err)
		}
		return nil, err
	}
	return reg, nil
}

func knownRule(id string) bool {
	_, ok := rules.Lookup(id)
	return ok
}

func runCheck(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	flags, err := readCheckFlags(cmd)
	if err != nil {
		return err
	}
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	cfg, err := loadConfig(flags.configPath, args[0])
	if err != nil {
		return err
	}
	reg, err := configureRules(cfg, flags.overrides)
	if err != nil {
		return err
	}

	maxDiagnostics := flags.maxDiagnostics
	if !flags.maxChanged {
		maxDiagnostics = cfg.MaxDiagnostics
		if maxDiagnostics == 0 {
			maxDiagnostics = defaultMaxDiagnostics
		}
	}

	var cache *driver.DiskCache
	if flags.cache {
		if flags.cacheDir != "" {
			cache, err = driver.NewDiskCache(flags.cacheDir)
		} else {
			cache, err = driver.OpenDiskCache("stylint")
		}
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
	}

	baseDir, err := os.Getwd()
	if err != nil {
		return err
	}
	opts := driver.Options{
		Registry:       reg,
		Known:          knownRule,
		Config:         cfg,
		Jobs:           flags.jobs,
		ParallelWalk:   flags.parallelWalk,
		MaxDiagnostics: maxDiagnostics,
		Cache:          cache,
		Timings:        flags.timings,
	}

	var result *driver.Result
	if !flags.quiet && shouldUseTUI(flags.ui) {
		files, collectErr := driver.CollectFiles(args, cfg)
		if collectErr != nil {
			return collectErr
		}
		result, err = runLintWithUI(cmd.Context(), cmd.ErrOrStderr(), "stylint", files, args, baseDir, opts)
	} else {
		result, err = driver.LintPaths(cmd.Context(), args, baseDir, opts)
	}
	if err != nil {
		return fmt.Errorf("lint failed: %w", err)
	}

	diags := adjustSeverities(result.Diagnostics(), flags.noWarnings, flags.warningsAsErrors)
	out := cmd.OutOrStdout()
	if err := render(cmd, out, diags, result, reg, flags); err != nil {
		return fmt.Errorf("failed to format diagnostics: %w", err)
	}

	errOut := cmd.ErrOrStderr()
	failed := result.Failed()
	for _, f := range failed {
		fmt.Fprintf(errOut, "stylint: %s: %v\n", f.Path, f.Err)
	}
	if flags.timings {
		printTimings(errOut, result)
	}

	switch {
	case len(failed) > 0:
		return &exitError{code: exitUsage}
	case hasErrors(diags):
		return &exitError{code: exitProblems}
	}
	return nil
}

// adjustSeverities applies --no-warnings and --warnings-as-errors.
func adjustSeverities(diags []diag.Diagnostic, dropWarnings, promote bool) []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(diags))
	for _, d := range diags {
		if d.Severity == diag.SevWarning {
			if dropWarnings {
				continue
			}
			if promote {
				d.Severity = diag.SevError
			}
		}
		out = append(out, d)
	}
	return out
}

func hasErrors(diags []diag.Diagnostic) bool {
	for i := range diags {
		if diags[i].Severity == diag.SevError {
			return true
		}
	}
	return false
}

func render(cmd *cobra.Command, out io.Writer, diags []diag.Diagnostic, result *driver.Result, reg *lint.Registry, flags checkFlags) error {
	fs := result.FileSet
	switch flags.format {
	case "pretty":
		color, err := useColor(cmd)
		if err != nil {
			return err
		}
		if err := diagfmt.Pretty(out, diags, fs, diagfmt.PrettyOpts{
			Color:     color,
			Context:   1,
			PathMode:  flags.pathMode,
			ShowNotes: flags.withNotes,
		}); err != nil {
			return err
		}
		if !flags.quiet {
			if summary := diagfmt.Summary(diags, len(result.Files)); summary != "" {
				_, err := fmt.Fprintf(out, "\n%s\n", summary)
				return err
			}
		}
		return nil
	case "short":
		return diagfmt.Short(out, diags, fs, flags.withNotes)
	case "json":
		return diagfmt.JSON(out, diags, fs, diagfmt.JSONOpts{PathMode: flags.pathMode, IncludeNotes: flags.withNotes})
	case "sarif":
		meta := diagfmt.SarifRunMeta{
			ToolName:       "stylint",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
		}
		for _, r := range reg.Rules() {
			meta.Rules = append(meta.Rules, diagfmt.RuleMeta{ID: r.ID, Description: r.Description, Severity: r.Severity.String()})
		}
		return diagfmt.Sarif(out, diags, fs, meta)
	}
	return fmt.Errorf("unknown format: %s", flags.format)
}

func printTimings(out io.Writer, result *driver.Result) {
	var reports []observ.Report
	cached := 0
	for _, f := range result.Files {
		if f.Timing != nil {
			reports = append(reports, *f.Timing)
		}
		if f.Cached {
			cached++
		}
	}
	sum := observ.Sum(reports...)
	fmt.Fprint(out, sum.Summary())
	fmt.Fprintf(out, "  %d files, %d from cache\n", len(result.Files), cached)
	if slow := sum.Slowest(1); len(slow) > 0 {
		fmt.Fprintf(out, "  slowest phase: %s\n", strings.TrimSpace(slow[0].Name))
	}
}
