package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"autoindent/internal/reindent"
	"autoindent/internal/source"
)

var explainCmd = &cobra.Command{
	Use:   "explain [flags] <file>",
	Short: "Show how each line of a file is classified",
	Long: `Print every line with the role the reindenter assigned to it, its original
indentation and the indentation it gets in the output.`,
	Args: cobra.ExactArgs(1),
	RunE: runExplain,
}

func init() {
	explainCmd.Flags().String("mode", "full-rebuild", "reindent mode (full-rebuild|shallow)")
	explainCmd.Flags().Bool("changed-only", false, "only show lines whose indentation changes")
}

var (
	fallbackColor = color.New(color.FgYellow)
	changedColor  = color.New(color.FgCyan)
)

func runExplain(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	changedOnly, err := cmd.Flags().GetBool("changed-only")
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := reindentOptions(cmd, cfg)
	if err != nil {
		return err
	}

	var file *source.File
	if args[0] == "-" {
		raw, readErr := io.ReadAll(cmd.InOrStdin())
		if readErr != nil {
			return fmt.Errorf("explain: read stdin: %w", readErr)
		}
		file, err = source.FromBytes("<stdin>", raw)
	} else {
		file, err = source.Load(args[0])
	}
	if err != nil {
		return fmt.Errorf("explain: %w", err)
	}

	r := reindent.New(opts)
	lines := r.Annotate(reindent.Split(file.Text()))
	renderExplain(os.Stdout, lines, changedOnly)
	return nil
}

// renderExplain prints one row per line: number, role, old -> new indent,
// emitted text.
func renderExplain(out io.Writer, lines []reindent.Line, changedOnly bool) {
	for _, ln := range lines {
		newIndent := leadingWidth(ln.Text)
		changed := ln.Text != "" && newIndent != ln.Indent
		if changedOnly && !changed {
			continue
		}
		role := ln.Role.String()
		if ln.Fallback {
			role += "*"
		}
		row := fmt.Sprintf("%5d  %-16s %2d -> %-2d | %s", ln.Number, role, ln.Indent, newIndent, ln.Text)
		switch {
		case ln.Fallback:
			row = fallbackColor.Sprint(row)
		case changed:
			row = changedColor.Sprint(row)
		}
		fmt.Fprintln(out, row)
	}

	stats := reindent.Summarize(lines)
	fmt.Fprintf(out, "\n%d lines: %d entries, %d list items, %d nested, %d fallbacks\n",
		stats.Lines, stats.Entries, stats.Count(reindent.RoleListItem), stats.Count(reindent.RoleNested), stats.Fallbacks)
	if stats.Fallbacks > 0 {
		fmt.Fprintln(out, "* placed at list-item depth because no rule matched")
	}
}

func leadingWidth(s string) int {
	n := 0
	for n < len(s) && s[n] == ' ' {
		n++
	}
	return n
}
