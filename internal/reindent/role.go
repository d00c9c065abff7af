package reindent

import "strings"

// Role is the structural role of a single line.
type Role uint8

const (
	// RoleOutside marks lines before the first entry; they are kept verbatim.
	RoleOutside Role = iota
	// RoleEntryStart marks the "- id: ..." line that opens an entry.
	RoleEntryStart
	// RoleField marks a recognized top-level field (alias, trigger, ...).
	RoleField
	// RoleListItem marks a dash-led element under a field.
	RoleListItem
	// RoleNested marks content indented beneath a list item.
	RoleNested
	// RoleBlank marks an empty or whitespace-only line.
	RoleBlank
	// RoleComment marks a line whose first non-space character is '#'.
	RoleComment

	roleCount
)

func (r Role) String() string {
	switch r {
	case RoleOutside:
		return "outside"
	case RoleEntryStart:
		return "entry-start"
	case RoleField:
		return "top-level-field"
	case RoleListItem:
		return "list-item"
	case RoleNested:
		return "nested-content"
	case RoleBlank:
		return "blank"
	case RoleComment:
		return "comment"
	}
	return "unknown"
}

// Tier reports the canonical indentation tier for r. Roles that are passed
// through untouched (outside, blank, comment) have no tier.
func (r Role) Tier() (Tier, bool) {
	switch r {
	case RoleEntryStart:
		return TierEntry, true
	case RoleField:
		return TierField, true
	case RoleListItem:
		return TierListItem, true
	case RoleNested:
		return TierNested, true
	}
	return 0, false
}

// Tier is a canonical indentation depth.
type Tier uint8

const (
	TierEntry Tier = iota
	TierField
	TierListItem
	TierNested
)

// tierWidths is the only place that decides how many spaces a tier gets.
var tierWidths = [...]int{
	TierEntry:    0,
	TierField:    2,
	TierListItem: 4,
	TierNested:   6,
}

// Width returns the number of leading spaces for t.
func (t Tier) Width() int {
	if int(t) >= len(tierWidths) {
		return tierWidths[TierNested]
	}
	return tierWidths[t]
}

// pad returns the leading whitespace for t.
func (t Tier) pad() string {
	return strings.Repeat(" ", t.Width())
}
