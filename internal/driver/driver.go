// Package driver runs the linter over files: it loads sources, parses them,
// walks the trees with the active rules, applies suppression comments and
// caches per-file results.
package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"stylint/internal/config"
	"stylint/internal/diag"
	"stylint/internal/directive"
	"stylint/internal/lint"
	"stylint/internal/observ"
	"stylint/internal/parser"
	"stylint/internal/source"
	"stylint/internal/trace"
)

// Options configure a lint run.
type Options struct {
	Registry *lint.Registry
	// Known reports whether a rule id exists at all, active or not. Directives
	// naming other ids are flagged. Defaults to Registry lookups.
	Known func(id string) bool
	// Config supplies ignore patterns for directory walks; nil means none.
	Config *config.File

	// Jobs bounds the files linted at once; <= 0 uses GOMAXPROCS.
	Jobs int
	// ParallelWalk also splits each file's top-level statements across workers.
	ParallelWalk bool
	// MaxDiagnostics caps the diagnostics kept per file; 0 means no cap.
	MaxDiagnostics int

	Cache    *DiskCache
	Progress ProgressSink
	Timings  bool
}

func (o *Options) known() func(string) bool {
	if o.Known != nil {
		return o.Known
	}
	return func(id string) bool {
		_, ok := o.Registry.Lookup(id)
		return ok
	}
}

func (o *Options) jobs() int {
	if o.Jobs <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Jobs
}

// FileResult is the outcome for one file. Err is set when the file could not
// be read; no diagnostics are produced for it then.
type FileResult struct {
	Path        string
	FileID      source.FileID
	Diagnostics []diag.Diagnostic
	ParseErrors uint
	// Suppressed counts diagnostics removed by stylint-disable comments.
	Suppressed int
	Cached     bool
	Timing     *observ.Report
	Err        error
}

// Result holds every file of a run in path order.
type Result struct {
	FileSet *source.FileSet
	Files   []FileResult
}

// Diagnostics concatenates the per-file diagnostics in file order.
func (r *Result) Diagnostics() []diag.Diagnostic {
	var out []diag.Diagnostic
	for i := range r.Files {
		out = append(out, r.Files[i].Diagnostics...)
	}
	return out
}

// Failed lists files that could not be read.
func (r *Result) Failed() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

// LintFile lints one file already loaded into fs. Parse errors, rule findings
// and directive problems end up in one ordered sequence.
func LintFile(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options) (out FileResult, err error) {
	if opts.Registry == nil {
		return FileResult{}, errors.New("driver: no rule registry")
	}
	f := fs.Get(id)
	if f == nil {
		return FileResult{}, fmt.Errorf("driver: unknown file id %d", id)
	}
	out = FileResult{Path: f.Path, FileID: id}

	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "lint_file", trace.CurrentSpan(ctx))
	defer span.End(f.Path)
	ctx = trace.WithSpan(ctx, span)

	var timer *observ.Timer
	if opts.Timings {
		timer = observ.NewTimer()
		// out именованный: отчёт попадает и в результат, и в ранние возвраты
		defer func() {
			report := timer.Report()
			out.Timing = &report
		}()
	}
	phase := func(name string) func(note string) {
		if timer == nil {
			return func(string) {}
		}
		idx := timer.Begin(name)
		return func(note string) { timer.End(idx, note) }
	}

	key := CacheKey(f, opts.Registry.Fingerprint(), opts.MaxDiagnostics)
	if opts.Cache != nil {
		done := phase("cache")
		var payload DiskPayload
		hit, err := opts.Cache.Get(key, &payload)
		if err == nil && hit && payload.Fingerprint == opts.Registry.Fingerprint() {
			done("hit")
			span.Set("cache", "hit")
			out.Diagnostics = fromCached(id, payload.Diagnostics)
			out.ParseErrors = payload.ParseErrors
			out.Suppressed = payload.Suppressed
			out.Cached = true
			return out, nil
		}
		done("miss")
	}

	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}

	emit(opts.Progress, Event{File: f.Path, Stage: StageParse, Status: StatusWorking})
	done := phase("parse")
	maxErrors, err := safecast.Conv[uint](max(opts.MaxDiagnostics, 0))
	if err != nil {
		return out, err
	}
	parsed, err := parser.Parse(ctx, f, parser.Options{MaxErrors: maxErrors, Reporter: rep})
	if err != nil {
		return out, err
	}
	out.ParseErrors = parsed.Errors
	done(strconv.FormatUint(uint64(parsed.Errors), 10) + " errors")

	emit(opts.Progress, Event{File: f.Path, Stage: StageLint, Status: StatusWorking})
	done = phase("lint")
	walker := lint.NewWalker(opts.Registry)
	if opts.ParallelWalk {
		diags, walkErr := walker.WalkParallel(ctx, parsed.Tree, opts.jobs())
		if walkErr != nil {
			return out, walkErr
		}
		for _, d := range diags {
			_ = bag.Add(d)
		}
	} else if err := walker.WalkInto(ctx, parsed.Tree, rep); err != nil {
		return out, err
	}
	done("")

	done = phase("suppress")
	set := directive.Collect(parsed.Tree, f, opts.known(), rep)
	before := bag.Len()
	if err := set.Filter(bag); err != nil {
		return out, err
	}
	out.Suppressed = before - bag.Len()
	done(strconv.Itoa(set.Len()) + " directives")

	out.Diagnostics = bag.Finalize()
	if opts.MaxDiagnostics > 0 && len(out.Diagnostics) > opts.MaxDiagnostics {
		out.Diagnostics = out.Diagnostics[:opts.MaxDiagnostics]
	}
	span.Set("diagnostics", strconv.Itoa(len(out.Diagnostics)))

	if opts.Cache != nil {
		payload := &DiskPayload{
			Path:        f.Path,
			Fingerprint: opts.Registry.Fingerprint(),
			ParseErrors: out.ParseErrors,
			Suppressed:  out.Suppressed,
			Diagnostics: toCached(out.Diagnostics),
		}
		if err := opts.Cache.Put(key, payload); err != nil {
			trace.Point(trace.FromContext(ctx), trace.ScopeFile, "cache_put_failed", span.ID(), err.Error())
		}
	}
	return out, nil
}

// LintPaths lints files and directories. Directories are walked for
// JavaScript sources; results come back in sorted path order whatever the
// worker scheduling.
func LintPaths(ctx context.Context, paths []string, baseDir string, opts Options) (*Result, error) {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeRun, "lint_paths", trace.CurrentSpan(ctx))
	defer span.End("")
	ctx = trace.WithSpan(ctx, span)

	files, err := CollectFiles(paths, opts.Config)
	if err != nil {
		return nil, err
	}
	span.Set("files", strconv.Itoa(len(files)))

	fs := source.NewFileSetWithBase(baseDir)
	res := &Result{FileSet: fs, Files: make([]FileResult, len(files))}
	if len(files) == 0 {
		return res, nil
	}

	// FileSet is not safe for concurrent adds, so loading stays on this goroutine.
	ids := make([]source.FileID, len(files))
	for i, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
		id, loadErr := fs.Load(path)
		if loadErr != nil {
			res.Files[i] = FileResult{Path: path, Err: fmt.Errorf("failed to load file: %w", loadErr)}
			continue
		}
		ids[i] = id
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(opts.jobs(), len(files)))
	fileOpts := opts
	if opts.ParallelWalk {
		// Files already run side by side; keep per-file fan-out small.
		fileOpts.Jobs = max(1, opts.jobs()/len(files))
	}
	for i, path := range files {
		if res.Files[i].Err != nil {
			emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: res.Files[i].Err})
			continue
		}
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			start := time.Now()
			fr, lintErr := LintFile(gctx, fs, ids[i], fileOpts)
			if lintErr != nil {
				emit(opts.Progress, Event{File: path, Stage: StageLint, Status: StatusError, Err: lintErr, Elapsed: time.Since(start)})
				return fmt.Errorf("%s: %w", path, lintErr)
			}
			fr.Path = path
			// индекс i уникален для горутины, мьютекс не нужен
			res.Files[i] = fr
			status := StatusDone
			if fr.Cached {
				status = StatusCached
			}
			emit(opts.Progress, Event{File: path, Stage: StageLint, Status: status, Elapsed: time.Since(start), Diagnostics: len(fr.Diagnostics)})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	return res, nil
}
