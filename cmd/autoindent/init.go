package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"autoindent/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a default autoindent.toml",
	Long: `Create autoindent.toml with the default settings in [dir] (the current
directory when omitted). The directory is created when missing. An existing
manifest is never overwritten unless --force is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite an existing autoindent.toml")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	target := "."
	if len(args) > 0 && args[0] != "" {
		target = args[0]
	}
	path, err := writeManifest(target, force)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "created %s\n", path)
	return nil
}

// writeManifest creates target if needed and writes config.Template into it.
func writeManifest(target string, force bool) (string, error) {
	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return "", fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return "", fmt.Errorf("%q is not a directory", target)
	}

	path := filepath.Join(target, config.FileName)
	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("already initialized: %s exists (use --force to overwrite)", path)
	}
	if err := os.WriteFile(path, []byte(config.Template), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
