package reindent

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode selects the rewriting strategy.
type Mode uint8

const (
	// ModeFullRebuild reclassifies every line inside an entry by role.
	ModeFullRebuild Mode = iota
	// ModeShallow strips two spaces from the over-indented block that directly
	// follows a column-0 entry start and leaves everything else alone.
	ModeShallow
)

func (m Mode) String() string {
	switch m {
	case ModeFullRebuild:
		return "full-rebuild"
	case ModeShallow:
		return "shallow"
	}
	return "unknown"
}

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "full", "full-rebuild", "rebuild":
		return ModeFullRebuild, nil
	case "shallow", "shallow-deindent":
		return ModeShallow, nil
	default:
		return ModeFullRebuild, fmt.Errorf("invalid mode: %q (expected: full-rebuild|shallow)", s)
	}
}

// DefaultFields are the top-level entry sections recognized out of the box.
var DefaultFields = []string{"alias", "description", "trigger", "condition", "action"}

// Options configures a Reindenter.
type Options struct {
	Mode Mode
	// EntryKey is the identifying key of an entry-start line.
	EntryKey string
	// Fields lists the top-level field names emitted at the field tier.
	Fields []string
	// NestedThreshold is the original indentation at or beyond which an
	// unmarked line counts as nested content.
	NestedThreshold int
	// TabWidth is the width of a leading tab when measuring indentation.
	TabWidth int
}

// DefaultOptions returns the canonical full-rebuild configuration.
func DefaultOptions() Options {
	return Options{}.withDefaults()
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.EntryKey) == "" {
		o.EntryKey = "id"
	}
	if len(o.Fields) == 0 {
		o.Fields = append([]string(nil), DefaultFields...)
	}
	// Thresholds outside (list-item, nested] would make a second pass move
	// lines again.
	if o.NestedThreshold <= TierListItem.Width() || o.NestedThreshold > TierNested.Width() {
		o.NestedThreshold = TierNested.Width()
	}
	if o.TabWidth <= 0 {
		o.TabWidth = 2
	}
	return o
}

// Fingerprint returns a stable string identifying every option that can
// change the output. Two option sets with equal fingerprints rewrite any
// document identically.
func (o Options) Fingerprint() string {
	o = o.withDefaults()
	var b strings.Builder
	b.WriteString(o.Mode.String())
	b.WriteByte('|')
	b.WriteString(o.EntryKey)
	b.WriteByte('|')
	b.WriteString(strings.Join(o.Fields, ","))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(o.NestedThreshold))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(o.TabWidth))
	return b.String()
}
