package driver

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"runtime"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"autoindent/internal/diag"
	"autoindent/internal/logger"
	"autoindent/internal/observ"
	"autoindent/internal/reindent"
	"autoindent/internal/source"
)

// Options configures a batch run.
type Options struct {
	Reindent reindent.Options
	// Check reports Changed without touching files.
	Check bool
	// Stdout returns the output in Result.Formatted without touching files.
	Stdout bool
	// Verify parses the output as YAML before accepting it.
	Verify         bool
	Jobs           int
	MaxDiagnostics int
	// Cache is optional; it is consulted only in full-rebuild mode.
	Cache    *DiskCache
	Progress ProgressSink
}

// Result captures the outcome for a single file.
type Result struct {
	Path    string
	Changed bool
	// Cached is set when the disk cache proved the file already canonical.
	Cached    bool
	Formatted []byte
	Err       error
	Bag       *diag.Bag
	Stats     reindent.Stats
	Timing    observ.Report
}

// ReindentPaths processes files in parallel. Results keep input order.
// Per-file failures land in Result.Err; only cancellation aborts the batch.
func ReindentPaths(ctx context.Context, files []string, opts Options) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	r := reindent.New(opts.Reindent)
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	for _, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = processPath(gctx, r, path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

// ReindentSource processes an already loaded file, typically stdin. Virtual
// files are never written; callers should set Check or Stdout.
func ReindentSource(ctx context.Context, file *source.File, opts Options) Result {
	return process(ctx, reindent.New(opts.Reindent), file, opts, observ.NewTimer())
}

func processPath(ctx context.Context, r *reindent.Reindenter, path string, opts Options) Result {
	timer := observ.NewTimer()
	emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusWorking})

	idx := timer.Begin(string(StageLoad))
	file, err := source.Load(path)
	timer.End(idx, "")
	if err != nil {
		res := Result{Path: path, Err: err, Bag: diag.NewBag(opts.MaxDiagnostics)}
		res.Bag.Add(ioDiagnostic(path, err))
		res.Timing = timer.Report()
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err, Elapsed: timer.Total()})
		return res
	}
	return process(ctx, r, file, opts, timer)
}

func process(ctx context.Context, r *reindent.Reindenter, file *source.File, opts Options, timer *observ.Timer) Result {
	log := logger.FromContext(ctx)
	res := Result{Path: file.Path, Bag: diag.NewBag(opts.MaxDiagnostics)}
	fail := func(stage Stage, err error) Result {
		res.Err = err
		res.Timing = timer.Report()
		emit(opts.Progress, Event{File: file.Path, Stage: stage, Status: StatusError, Err: err, Elapsed: timer.Total()})
		return res
	}

	ropts := r.Options()
	cache := opts.Cache
	if ropts.Mode != reindent.ModeFullRebuild {
		cache = nil
	}
	fingerprint := ropts.Fingerprint()

	if cache != nil {
		var payload DiskPayload
		hit, err := cache.Get(CacheKey(fingerprint, file.Hash), &payload)
		if err != nil {
			log.Warn("cache read failed", "path", file.Path, "err", err)
		}
		if hit && payload.Fingerprint == fingerprint && (payload.Verified || !opts.Verify) {
			res.Cached = true
			res.Stats = payload.Stats
			for _, d := range payload.Diagnostics {
				d.Path = file.Path
				res.Bag.Add(d)
			}
			if opts.Stdout {
				res.Formatted = file.Content
			}
			res.Timing = timer.Report()
			log.Debug("cache hit", "path", file.Path)
			emit(opts.Progress, Event{File: file.Path, Stage: StageReindent, Status: StatusDone, Elapsed: timer.Total()})
			return res
		}
	}

	emit(opts.Progress, Event{File: file.Path, Stage: StageReindent, Status: StatusWorking})
	idx := timer.Begin(string(StageReindent))
	lines := r.Annotate(reindent.Split(file.Text()))
	out := make(reindent.Document, len(lines))
	for i, ln := range lines {
		out[i] = ln.Text
	}
	res.Stats = reindent.Summarize(lines)
	found := collectDiagnostics(r, file.Path, lines)
	for _, d := range found {
		res.Bag.Add(d)
	}
	text := out.String()
	formatted := []byte(text)
	res.Changed = !bytes.Equal(file.Content, formatted)
	timer.End(idx, fmt.Sprintf("%d lines", len(lines)))

	if opts.Verify {
		emit(opts.Progress, Event{File: file.Path, Stage: StageVerify, Status: StatusWorking})
		idx = timer.Begin(string(StageVerify))
		err := Verify(file.Path, text)
		timer.End(idx, "")
		if err != nil {
			res.Bag.Add(verifyDiagnostic(file.Path, err))
			return fail(StageVerify, err)
		}
	}

	switch {
	case opts.Check:
	case opts.Stdout:
		res.Formatted = formatted
	case res.Changed:
		emit(opts.Progress, Event{File: file.Path, Stage: StageWrite, Status: StatusWorking})
		idx = timer.Begin(string(StageWrite))
		err := file.Write(formatted)
		timer.End(idx, "")
		if err != nil {
			res.Bag.Add(ioDiagnostic(file.Path, err))
			return fail(StageWrite, err)
		}
		log.Debug("rewrote file", "path", file.Path)
	}

	if cache != nil {
		// the output of a full rebuild is canonical, so its hash is cacheable
		// whether or not it reached the disk
		payload := &DiskPayload{Fingerprint: fingerprint, Verified: opts.Verify}
		if res.Changed {
			// a later run sees the rewritten text, so record what it would report
			canonical := r.Annotate(reindent.Split(text))
			payload.Stats = reindent.Summarize(canonical)
			found = collectDiagnostics(r, file.Path, canonical)
		} else {
			payload.Stats = res.Stats
		}
		payload.Diagnostics = make([]diag.Diagnostic, 0, len(found))
		for _, d := range found {
			d.Path = ""
			payload.Diagnostics = append(payload.Diagnostics, d)
		}
		if err := cache.Put(CacheKey(fingerprint, sha256.Sum256(formatted)), payload); err != nil {
			log.Warn("cache write failed", "path", file.Path, "err", err)
		}
	}

	res.Timing = timer.Report()
	emit(opts.Progress, Event{File: file.Path, Stage: StageWrite, Status: StatusDone, Changed: res.Changed, Elapsed: timer.Total()})
	return res
}

// collectDiagnostics reports lines whose placement deserves a second look.
func collectDiagnostics(r *reindent.Reindenter, path string, lines []reindent.Line) []diag.Diagnostic {
	var out []diag.Diagnostic
	shallow := r.Options().Mode == reindent.ModeShallow
	for _, ln := range lines {
		switch {
		case shallow && ln.Role == reindent.RoleOutside && r.HasEntryKey(ln.Content):
			out = append(out, diag.Diagnostic{
				Severity: diag.SevInfo,
				Code:     diag.ReindentShallowSkipped,
				Message:  fmt.Sprintf("%q is not at column 0 and starts no block in shallow mode", ln.Content),
				Path:     path,
				Line:     lineNumber(ln.Number),
			})
		case shallow:
		case (ln.Role == reindent.RoleListItem || ln.Role == reindent.RoleNested) && r.HasEntryKey(ln.Content):
			out = append(out, diag.Diagnostic{
				Severity: diag.SevWarning,
				Code:     diag.ReindentNestedEntryKey,
				Message:  fmt.Sprintf("%q is indented %d columns and stays content of the current entry", ln.Content, ln.Indent),
				Path:     path,
				Line:     lineNumber(ln.Number),
			})
		case ln.Fallback:
			out = append(out, diag.Diagnostic{
				Severity: diag.SevInfo,
				Code:     diag.ReindentFallback,
				Message:  fmt.Sprintf("%q matched no rule and was placed at list-item depth", ln.Content),
				Path:     path,
				Line:     lineNumber(ln.Number),
			})
		}
	}
	return out
}

func ioDiagnostic(path string, err error) diag.Diagnostic {
	code := diag.IOLoadFileError
	var failure *source.IOFailure
	if errors.As(err, &failure) {
		switch failure.Op {
		case source.OpDecode:
			code = diag.IODecodeError
		case source.OpWrite:
			code = diag.IOWriteError
		}
	}
	return diag.Diagnostic{Severity: diag.SevError, Code: code, Message: err.Error(), Path: path}
}

func verifyDiagnostic(path string, err error) diag.Diagnostic {
	d := diag.Diagnostic{Severity: diag.SevError, Code: diag.VerifyParseError, Message: err.Error(), Path: path}
	var ve *VerifyError
	if errors.As(err, &ve) {
		d.Message = ve.Msg
		d.Line = lineNumber(ve.Line)
	}
	return d
}

func lineNumber(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return 0
	}
	return v
}
