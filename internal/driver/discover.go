package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNoFiles is returned when discovery found nothing to process.
var ErrNoFiles = errors.New("no automation files found")

// DiscoverOptions describes where automation files live. Paths take
// precedence over List, which takes precedence over Dir.
type DiscoverOptions struct {
	// Paths are explicit files or directories from the command line.
	Paths []string
	// List is a fixed set of files; missing ones are reported, not fatal.
	List []string
	// Dir is the designated directory walked for Extension.
	Dir       string
	Extension string
	// Include and Exclude are doublestar globs relative to the walked
	// directory.
	Include []string
	Exclude []string
	// TopLevel limits directory walks to the directory itself.
	TopLevel bool
}

// Discovery is the outcome of file enumeration.
type Discovery struct {
	Files   []string
	Missing []string
}

// Discover enumerates candidate files. The result is sorted and free of
// duplicates.
func Discover(ctx context.Context, opts DiscoverOptions) (Discovery, error) {
	if err := ctx.Err(); err != nil {
		return Discovery{}, err
	}
	for _, pattern := range append(slices.Clone(opts.Include), opts.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return Discovery{}, fmt.Errorf("invalid glob pattern %q", pattern)
		}
	}

	var out Discovery
	seen := make(map[string]struct{})
	add := func(path string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		out.Files = append(out.Files, path)
	}

	switch {
	case len(opts.Paths) > 0:
		for _, p := range opts.Paths {
			info, err := os.Stat(p)
			if err != nil {
				return Discovery{}, err
			}
			if !info.IsDir() {
				add(p)
				continue
			}
			files, err := walkDir(ctx, p, opts)
			if err != nil {
				return Discovery{}, err
			}
			for _, f := range files {
				add(f)
			}
		}
	case len(opts.List) > 0:
		for _, p := range opts.List {
			info, err := os.Stat(p)
			if err != nil || info.IsDir() {
				out.Missing = append(out.Missing, p)
				continue
			}
			add(p)
		}
	default:
		dir := opts.Dir
		if dir == "" {
			dir = "."
		}
		info, err := os.Stat(dir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return out, nil
			}
			return Discovery{}, err
		}
		if !info.IsDir() {
			return Discovery{}, fmt.Errorf("%q is not a directory", dir)
		}
		files, err := walkDir(ctx, dir, opts)
		if err != nil {
			return Discovery{}, err
		}
		for _, f := range files {
			add(f)
		}
	}

	slices.Sort(out.Files)
	return out, nil
}

// walkDir collects files with the configured extension under root that pass
// the include/exclude globs.
func walkDir(ctx context.Context, root string, opts DiscoverOptions) ([]string, error) {
	ext := opts.Extension
	if ext == "" {
		ext = ".yaml"
	}
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			// Skip hidden directories
			if path != root && (opts.TopLevel || len(name) > 1 && strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ext) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if selected(filepath.ToSlash(rel), opts.Include, opts.Exclude) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func selected(rel string, include, exclude []string) bool {
	if len(include) > 0 && !matchAny(include, rel) {
		return false
	}
	return !matchAny(exclude, rel)
}

func matchAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
