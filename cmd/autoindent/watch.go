package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"autoindent/internal/config"
	"autoindent/internal/driver"
	"autoindent/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] [path...]",
	Short: "Reindent automation files whenever they change",
	Long: `Run fix once, then watch the directories holding automation files and
reindent every file that is written or created there.`,
	RunE: runWatch,
}

func init() {
	addRunFlags(watchCmd)
	watchCmd.Flags().Duration("debounce", 200*time.Millisecond, "delay before reacting to a burst of changes")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	delay, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rs, err := readRunSettings(cmd, cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	log := logger.FromContext(ctx)
	found, err := driver.Discover(ctx, discoverOptions(cfg, args))
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	dirs := watchDirs(found.Files, cfg.Files.Dir, len(args) == 0 && len(cfg.Files.List) == 0, cfg.Files.Recursive)
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			log.Warn("failed to watch directory", "path", dir, "err", err)
		}
	}
	if len(watcher.WatchList()) == 0 {
		return fmt.Errorf("watch: nothing to watch")
	}
	log.Info("file watcher initialized", "files", len(found.Files), "directories", len(dirs))

	if len(found.Files) > 0 {
		runWatchBatch(ctx, cfg, args, found.Files, rs)
	}

	batches := make(chan []string, 1)
	go collectChanges(ctx, watcher, extensionOf(cfg), delay, batches)
	for {
		select {
		case <-ctx.Done():
			return nil
		case batch := <-batches:
			runWatchBatch(ctx, cfg, args, batch, rs)
		}
	}
}

// runWatchBatch reindents the changed files that discovery still selects.
func runWatchBatch(ctx context.Context, cfg config.Config, args, changed []string, rs runSettings) {
	log := logger.FromContext(ctx)
	found, err := driver.Discover(ctx, discoverOptions(cfg, args))
	if err != nil {
		log.Error("discovery failed", "err", err)
		return
	}
	selected := make(map[string]struct{}, len(found.Files))
	for _, f := range found.Files {
		selected[f] = struct{}{}
	}
	var files []string
	for _, f := range changed {
		if _, ok := selected[filepath.Clean(f)]; ok {
			files = append(files, filepath.Clean(f))
		}
	}
	if len(files) == 0 {
		return
	}

	results, err := driver.ReindentPaths(ctx, files, rs.driver)
	if err != nil {
		if ctx.Err() == nil {
			log.Error("reindent failed", "err", err)
		}
		return
	}
	renderFixText(os.Stdout, os.Stderr, results, false, rs.quiet)
	printDiagnostics(os.Stderr, results, rs)
}

// collectChanges debounces fsnotify events into batches of file paths.
func collectChanges(ctx context.Context, watcher *fsnotify.Watcher, ext string, delay time.Duration, batches chan<- []string) {
	log := logger.FromContext(ctx)
	pending := newChangeSet()
	var timer *time.Timer
	flush := func() {
		batch := pending.drain()
		if len(batch) == 0 {
			return
		}
		select {
		case batches <- batch:
		case <-ctx.Done():
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ext) {
				continue
			}
			log.Debug("detected file change", "file", event.Name, "op", event.Op.String())
			pending.add(event.Name)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(delay, flush)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Error("watcher error", "err", err)
		}
	}
}

// changeSet accumulates changed paths between flushes.
type changeSet struct {
	mu    sync.Mutex
	paths map[string]struct{}
}

func newChangeSet() *changeSet {
	return &changeSet{paths: make(map[string]struct{})}
}

func (c *changeSet) add(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths[filepath.Clean(path)] = struct{}{}
}

// drain returns the sorted pending paths and resets the set.
func (c *changeSet) drain() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.paths))
	for p := range c.paths {
		out = append(out, p)
	}
	c.paths = make(map[string]struct{})
	slices.Sort(out)
	return out
}

// watchDirs lists the directories to subscribe to: parents of known files
// and, when includeDir is set, the designated directory with its
// subdirectories so that new files are noticed.
func watchDirs(files []string, dir string, includeDir, recursive bool) []string {
	seen := make(map[string]struct{})
	for _, f := range files {
		seen[filepath.Dir(f)] = struct{}{}
	}
	if includeDir && dir != "" {
		_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil || !d.IsDir() {
				return nil
			}
			name := d.Name()
			if path != dir && (!recursive || len(name) > 1 && strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			seen[filepath.Clean(path)] = struct{}{}
			return nil
		})
	}
	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}

func extensionOf(cfg config.Config) string {
	if cfg.Files.Extension == "" {
		return ".yaml"
	}
	return cfg.Files.Extension
}
