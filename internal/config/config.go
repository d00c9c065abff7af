// Package config loads autoindent.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"autoindent/internal/reindent"
)

// FileName is the manifest searched for by Find.
const FileName = "autoindent.toml"

// Config is the decoded manifest.
type Config struct {
	// Path is the manifest location; empty when defaults are used.
	Path     string         `toml:"-"`
	Reindent ReindentConfig `toml:"reindent"`
	Files    FilesConfig    `toml:"files"`
	Run      RunConfig      `toml:"run"`
}

type ReindentConfig struct {
	Mode            string   `toml:"mode"`
	EntryKey        string   `toml:"entry_key"`
	Fields          []string `toml:"fields"`
	NestedThreshold int      `toml:"nested_threshold"`
	TabWidth        int      `toml:"tab_width"`
}

type FilesConfig struct {
	Dir       string   `toml:"dir"`
	Extension string   `toml:"extension"`
	Include   []string `toml:"include"`
	Exclude   []string `toml:"exclude"`
	List      []string `toml:"list"`
	// Recursive walks subdirectories of Dir; false reads only Dir itself.
	Recursive bool `toml:"recursive"`
}

type RunConfig struct {
	Jobs   int  `toml:"jobs"`
	Cache  bool `toml:"cache"`
	Verify bool `toml:"verify"`
}

// Default returns the configuration used when no manifest exists: every
// .yaml file under ./automations.
func Default() Config {
	return Config{
		Reindent: ReindentConfig{
			Mode:            reindent.ModeFullRebuild.String(),
			EntryKey:        "id",
			Fields:          append([]string(nil), reindent.DefaultFields...),
			NestedThreshold: 6,
			TabWidth:        2,
		},
		Files: FilesConfig{
			Dir:       "automations",
			Extension: ".yaml",
			Recursive: true,
		},
		Run: RunConfig{
			Cache: true,
		},
	}
}

// Find walks up from startDir looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the manifest above startDir, falling back to
// Default when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load decodes the manifest at path on top of Default. Relative paths in
// [files] are resolved against the manifest directory.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	base := filepath.Dir(path)
	cfg.Files.Dir = resolve(base, cfg.Files.Dir)
	for i, p := range cfg.Files.List {
		cfg.Files.List[i] = resolve(base, p)
	}
	return cfg, nil
}

func resolve(base, p string) string {
	p = strings.TrimSpace(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, filepath.FromSlash(p))
}

// Validate checks values that would otherwise be silently replaced.
func (c Config) Validate() error {
	if _, err := reindent.ParseMode(c.Reindent.Mode); err != nil {
		return fmt.Errorf("[reindent].mode: %w", err)
	}
	if strings.ContainsAny(c.Reindent.EntryKey, ": \t") {
		return fmt.Errorf("[reindent].entry_key must be a bare key, got %q", c.Reindent.EntryKey)
	}
	if n := c.Reindent.NestedThreshold; n != 0 && (n < 5 || n > 6) {
		return fmt.Errorf("[reindent].nested_threshold must be 5 or 6, got %d", n)
	}
	if c.Reindent.TabWidth < 0 {
		return fmt.Errorf("[reindent].tab_width must not be negative")
	}
	if ext := c.Files.Extension; ext != "" && !strings.HasPrefix(ext, ".") {
		return fmt.Errorf("[files].extension must start with a dot, got %q", ext)
	}
	if c.Run.Jobs < 0 {
		return fmt.Errorf("[run].jobs must not be negative")
	}
	return nil
}

// Options converts the [reindent] section into reindenter options.
func (c Config) Options() (reindent.Options, error) {
	mode, err := reindent.ParseMode(c.Reindent.Mode)
	if err != nil {
		return reindent.Options{}, err
	}
	return reindent.Options{
		Mode:            mode,
		EntryKey:        c.Reindent.EntryKey,
		Fields:          c.Reindent.Fields,
		NestedThreshold: c.Reindent.NestedThreshold,
		TabWidth:        c.Reindent.TabWidth,
	}, nil
}

// Template is the manifest written by `autoindent init`.
const Template = `# autoindent configuration

[reindent]
# full-rebuild reclassifies every line; shallow only strips two spaces
# from the block that follows a column-0 "- id:" line.
mode = "full-rebuild"
entry_key = "id"
fields = ["alias", "description", "trigger", "condition", "action"]
nested_threshold = 6
tab_width = 2

[files]
dir = "automations"
extension = ".yaml"
include = []
exclude = []
recursive = true
# list = ["automations/kitchen_monitoring.yaml"]

[run]
jobs = 0
cache = true
verify = false
`
