package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"autoindent/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the autoindent disk cache",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, _ []string) error {
	cache, err := driver.OpenDiskCache("autoindent")
	if err != nil {
		return fmt.Errorf("clean: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("clean: failed to remove %q: %w", cache.Dir(), err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(os.Stdout, "removed %s\n", cache.Dir())
	}
	return nil
}
