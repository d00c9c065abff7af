package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"autoindent/internal/config"
	"autoindent/internal/driver"
	"autoindent/internal/logger"
	"autoindent/internal/reindent"
)

// loadConfig honours --config, otherwise searches parent directories.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	var cfg config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return config.Config{}, err
	}
	log := logger.FromContext(cmd.Context())
	if cfg.Path != "" {
		log.Debug("loaded config", "path", cfg.Path)
	} else {
		log.Debug("no config found, using defaults")
	}
	return cfg, nil
}

// reindentOptions merges the [reindent] section with an explicit --mode.
func reindentOptions(cmd *cobra.Command, cfg config.Config) (reindent.Options, error) {
	opts, err := cfg.Options()
	if err != nil {
		return reindent.Options{}, err
	}
	if f := cmd.Flags().Lookup("mode"); f != nil && f.Changed {
		mode, err := reindent.ParseMode(f.Value.String())
		if err != nil {
			return reindent.Options{}, fmt.Errorf("--mode: %w", err)
		}
		opts.Mode = mode
	}
	return opts, nil
}

func discoverOptions(cfg config.Config, paths []string) driver.DiscoverOptions {
	return driver.DiscoverOptions{
		Paths:     paths,
		List:      cfg.Files.List,
		Dir:       cfg.Files.Dir,
		Extension: cfg.Files.Extension,
		Include:   cfg.Files.Include,
		Exclude:   cfg.Files.Exclude,
		TopLevel:  !cfg.Files.Recursive,
	}
}

// openCache returns nil when caching is disabled or the cache directory is
// unusable.
func openCache(cmd *cobra.Command, enabled bool) *driver.DiskCache {
	if !enabled {
		return nil
	}
	cache, err := driver.OpenDiskCache("autoindent")
	if err != nil {
		logger.FromContext(cmd.Context()).Warn("disk cache disabled", "err", err)
		return nil
	}
	return cache
}
