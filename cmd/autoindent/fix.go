package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"autoindent/internal/config"
	"autoindent/internal/diag"
	"autoindent/internal/diagfmt"
	"autoindent/internal/driver"
	"autoindent/internal/logger"
	"autoindent/internal/observ"
	"autoindent/internal/source"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] [path...]",
	Short: "Rewrite automation files with canonical indentation",
	Long: `Rewrite automation files with canonical indentation. Without paths the files
come from autoindent.toml ([files].list, or every file under [files].dir).
Pass "-" to read a single document from stdin.`,
	RunE: runFix,
}

func init() {
	fixCmd.Flags().Bool("check", false, "report files that need reindenting without rewriting them")
	fixCmd.Flags().Bool("stdout", false, "print reindented content to stdout instead of rewriting files")
	fixCmd.Flags().String("format", "text", "output format (text|json)")
	fixCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	addRunFlags(fixCmd)
}

// addRunFlags registers the flags shared by fix and watch.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("mode", "full-rebuild", "reindent mode (full-rebuild|shallow)")
	cmd.Flags().Int("jobs", 0, "max parallel files (0=auto)")
	cmd.Flags().Bool("verify", false, "parse the output as YAML before writing")
	cmd.Flags().Bool("no-cache", false, "ignore the disk cache")
	cmd.Flags().Bool("show-fallbacks", false, "also report lines placed by the fallback rule")
}

// runSettings is the merged view of config and flags for one run.
type runSettings struct {
	driver        driver.Options
	quiet         bool
	timings       bool
	showFallbacks bool
	pathMode      diagfmt.PathMode
	baseDir       string
}

func readRunSettings(cmd *cobra.Command, cfg config.Config) (runSettings, error) {
	var rs runSettings
	var err error

	if rs.driver.Reindent, err = reindentOptions(cmd, cfg); err != nil {
		return rs, err
	}
	rs.driver.Jobs = cfg.Run.Jobs
	if f := cmd.Flags().Lookup("jobs"); f != nil && f.Changed {
		if rs.driver.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return rs, err
		}
	}
	verify, err := cmd.Flags().GetBool("verify")
	if err != nil {
		return rs, err
	}
	rs.driver.Verify = verify || cfg.Run.Verify
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return rs, err
	}
	rs.driver.Cache = openCache(cmd, cfg.Run.Cache && !noCache)
	if rs.showFallbacks, err = cmd.Flags().GetBool("show-fallbacks"); err != nil {
		return rs, err
	}
	if rs.driver.MaxDiagnostics, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return rs, err
	}
	if rs.quiet, err = cmd.Root().PersistentFlags().GetBool("quiet"); err != nil {
		return rs, err
	}
	if rs.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return rs, err
	}
	pathMode, err := cmd.Root().PersistentFlags().GetString("path-mode")
	if err != nil {
		return rs, err
	}
	if rs.pathMode, err = diagfmt.ParsePathMode(pathMode); err != nil {
		return rs, fmt.Errorf("--path-mode: %w", err)
	}
	if rs.pathMode == diagfmt.PathModeRelative {
		if rs.baseDir, err = os.Getwd(); err != nil {
			return rs, err
		}
	}
	return rs, nil
}

func runFix(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return err
	}
	writeToStdout, err := cmd.Flags().GetBool("stdout")
	if err != nil {
		return err
	}
	outputFormat, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	mode, err := parseUIMode(uiFlag)
	if err != nil {
		return err
	}

	if writeToStdout && check {
		return fmt.Errorf("fix: --stdout cannot be used with --check")
	}
	if writeToStdout && outputFormat != "text" {
		return fmt.Errorf("fix: --stdout is only supported with text output")
	}
	if outputFormat != "text" && outputFormat != "json" {
		return fmt.Errorf("fix: unsupported output format %q", outputFormat)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rs, err := readRunSettings(cmd, cfg)
	if err != nil {
		return err
	}
	rs.driver.Check = check
	rs.driver.Stdout = writeToStdout

	cleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	var results []driver.Result
	if len(args) == 1 && args[0] == "-" {
		res, err := reindentStdin(cmd, rs.driver)
		if err != nil {
			return err
		}
		results = []driver.Result{res}
		if !check && outputFormat == "text" {
			writeToStdout = true
		}
	} else {
		found, err := driver.Discover(ctx, discoverOptions(cfg, args))
		if err != nil {
			return fmt.Errorf("fix: %w", err)
		}
		log := logger.FromContext(ctx)
		for _, missing := range found.Missing {
			log.Warn("skipping missing file", "path", missing)
		}
		if len(found.Files) == 0 {
			if len(args) > 0 {
				return fmt.Errorf("fix: %w", driver.ErrNoFiles)
			}
			if !rs.quiet {
				fmt.Fprintf(os.Stderr, "fix: %v in %s\n", driver.ErrNoFiles, cfg.Files.Dir)
			}
			return nil
		}

		if outputFormat == "text" && !writeToStdout && useProgressView(mode, isTerminal(os.Stdout), rs.quiet) {
			results, err = runReindentWithUI(ctx, "reindent", found.Files, rs.driver)
		} else {
			results, err = driver.ReindentPaths(ctx, found.Files, rs.driver)
		}
		if err != nil {
			return fmt.Errorf("fix: %w", err)
		}
	}

	var summary fixSummary
	switch {
	case outputFormat == "json":
		summary = summarize(results)
		if err := renderFixJSON(os.Stdout, results, check, diagfmt.JSONOpts{PathMode: rs.pathMode, BaseDir: rs.baseDir}); err != nil {
			return err
		}
	case writeToStdout:
		summary = renderFixStdout(os.Stdout, os.Stderr, results)
		printDiagnostics(os.Stderr, results, rs)
	default:
		summary = renderFixText(os.Stdout, os.Stderr, results, check, rs.quiet)
		printDiagnostics(os.Stderr, results, rs)
	}

	if rs.timings {
		printTimings(os.Stderr, results)
	}

	if summary.errors > 0 {
		return fmt.Errorf("fix: failed to reindent %d file(s)", summary.errors)
	}
	if check && summary.changed > 0 {
		return fmt.Errorf("fix: indentation changes required in %d file(s)", summary.changed)
	}
	return nil
}

func reindentStdin(cmd *cobra.Command, opts driver.Options) (driver.Result, error) {
	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return driver.Result{}, fmt.Errorf("fix: read stdin: %w", err)
	}
	file, err := source.FromBytes("<stdin>", raw)
	if err != nil {
		return driver.Result{}, fmt.Errorf("fix: %w", err)
	}
	// stdin has no backing file, so the only place to put the result is stdout
	if !opts.Check {
		opts.Stdout = true
	}
	opts.Cache = nil
	return driver.ReindentSource(cmd.Context(), file, opts), nil
}

type fixSummary struct {
	changed   int
	unchanged int
	errors    int
}

func summarize(results []driver.Result) fixSummary {
	var s fixSummary
	for _, res := range results {
		switch {
		case res.Err != nil:
			s.errors++
		case res.Changed:
			s.changed++
		default:
			s.unchanged++
		}
	}
	return s
}

func renderFixStdout(out, errOut io.Writer, results []driver.Result) fixSummary {
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(errOut, "fix: %s: %v\n", res.Path, res.Err)
			continue
		}
		_, _ = out.Write(res.Formatted)
	}
	return summarize(results)
}

func renderFixText(out, errOut io.Writer, results []driver.Result, check, quiet bool) fixSummary {
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(errOut, "fix: %s: %v\n", res.Path, res.Err)
			continue
		}
		if !res.Changed || quiet {
			continue
		}
		if check {
			fmt.Fprintln(out, res.Path)
		} else {
			fmt.Fprintf(out, "reindented %s\n", res.Path)
		}
	}
	s := summarize(results)
	if !quiet && len(results) > 1 {
		verb := "reindented"
		if check {
			verb = "need reindenting"
		}
		fmt.Fprintf(errOut, "%d file(s) %s, %d unchanged, %d failed\n", s.changed, verb, s.unchanged, s.errors)
	}
	return s
}

type fixJSONStats struct {
	Lines     int `json:"lines"`
	Entries   int `json:"entries"`
	Fallbacks int `json:"fallbacks"`
}

type fixJSONResult struct {
	Path        string                   `json:"path"`
	Changed     bool                     `json:"changed"`
	Cached      bool                     `json:"cached,omitempty"`
	Error       string                   `json:"error,omitempty"`
	Stats       fixJSONStats             `json:"stats"`
	Diagnostics []diagfmt.DiagnosticJSON `json:"diagnostics,omitempty"`
}

type fixJSONPayload struct {
	Check   bool            `json:"check"`
	Results []fixJSONResult `json:"results"`
}

func renderFixJSON(out io.Writer, results []driver.Result, check bool, opts diagfmt.JSONOpts) error {
	payload := fixJSONPayload{Check: check, Results: make([]fixJSONResult, 0, len(results))}
	for _, res := range results {
		item := fixJSONResult{
			Path:    res.Path,
			Changed: res.Changed,
			Cached:  res.Cached,
			Stats: fixJSONStats{
				Lines:     res.Stats.Lines,
				Entries:   res.Stats.Entries,
				Fallbacks: res.Stats.Fallbacks,
			},
		}
		if res.Err != nil {
			item.Error = res.Err.Error()
		}
		if res.Bag != nil && res.Bag.Len() > 0 {
			res.Bag.Sort()
			item.Diagnostics = diagfmt.BuildDiagnostics(res.Bag, opts).Diagnostics
		}
		payload.Results = append(payload.Results, item)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

// printDiagnostics shows warnings (and fallbacks on request). IO and verify
// errors are already reported per file.
func printDiagnostics(out io.Writer, results []driver.Result, rs runSettings) {
	if rs.quiet {
		return
	}
	minSev := diag.SevWarning
	if rs.showFallbacks {
		minSev = diag.SevInfo
	}
	bag := diag.NewBag(mergedLimit(len(results), rs.driver.MaxDiagnostics))
	for _, res := range results {
		if res.Bag == nil {
			continue
		}
		for _, d := range res.Bag.Items() {
			if d.Severity < diag.SevError {
				bag.Add(d)
			}
		}
	}
	bag.Sort()
	_ = diagfmt.Pretty(out, bag, diagfmt.PrettyOpts{
		Color:       !color.NoColor,
		PathMode:    rs.pathMode,
		BaseDir:     rs.baseDir,
		MinSeverity: uint8(minSev),
	})
}

// mergedLimit sizes the bag that collects every file's diagnostics. It is
// capped at what a Bag can hold.
func mergedLimit(files, perFile int) int {
	limit := files * max(perFile, 1)
	if limit <= 0 || limit > math.MaxUint16 {
		return math.MaxUint16
	}
	return limit
}

func printTimings(out io.Writer, results []driver.Result) {
	reports := make([]observ.Report, 0, len(results))
	for _, res := range results {
		reports = append(reports, res.Timing)
	}
	fmt.Fprint(out, observ.Merge(reports...).Summary())
}
