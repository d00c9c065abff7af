package reindent

import "strings"

// lineInfo is one pre-scanned input line.
type lineInfo struct {
	raw     string
	trimmed string
	indent  int
}

func (r *Reindenter) scan(raw string) lineInfo {
	indent := 0
	for _, ch := range raw {
		switch ch {
		case ' ':
			indent++
			continue
		case '\t':
			indent += r.opts.TabWidth
			continue
		}
		break
	}
	return lineInfo{
		raw:     raw,
		trimmed: strings.TrimSpace(raw),
		indent:  indent,
	}
}

// entryState is the per-entry memory of the scanner. It only remembers the
// most recent list item of the current field.
type entryState struct {
	inList     bool
	listIndent int
}

// nestedUnder reports whether an unmarked line at indent sits deeper than
// the list item it follows.
func (st entryState) nestedUnder(indent int) bool {
	return st.inList && indent > st.listIndent
}

func (st *entryState) observe(role Role, indent int) {
	switch role {
	case RoleEntryStart, RoleField:
		*st = entryState{}
	case RoleListItem:
		st.inList = true
		st.listIndent = indent
	}
}

// classify assigns a role to li. The switch order is the priority order:
// blank, comment, next entry, field, list marker, depth, fallback. The second
// result is true when the final fallback rule fired.
func (r *Reindenter) classify(li lineInfo, inEntry bool, st entryState) (Role, bool) {
	if !inEntry {
		switch {
		case li.trimmed == "":
			return RoleBlank, false
		case isComment(li.trimmed):
			return RoleComment, false
		case r.isEntryStart(li):
			return RoleEntryStart, false
		default:
			return RoleOutside, false
		}
	}

	switch {
	case li.trimmed == "":
		return RoleBlank, false
	case isComment(li.trimmed):
		return RoleComment, false
	case r.isEntryStart(li):
		return RoleEntryStart, false
	case r.isField(li.trimmed):
		return RoleField, false
	case isListMarker(li.trimmed):
		return RoleListItem, false
	case li.indent >= r.opts.NestedThreshold, st.nestedUnder(li.indent):
		return RoleNested, false
	default:
		return RoleListItem, true
	}
}

func isComment(trimmed string) bool {
	return strings.HasPrefix(trimmed, "#")
}

// isListMarker reports whether trimmed starts with a YAML sequence dash.
func isListMarker(trimmed string) bool {
	if !strings.HasPrefix(trimmed, "-") {
		return false
	}
	return len(trimmed) == 1 || trimmed[1] == ' ' || trimmed[1] == '\t'
}

// isEntryStart matches "- id: value" (dash optional) above list-item depth.
func (r *Reindenter) isEntryStart(li lineInfo) bool {
	if li.indent >= TierListItem.Width() {
		return false
	}
	_, ok := r.entryValue(li.trimmed)
	return ok
}

// entryValue extracts the identifying value from "- id: value", "-id: value"
// or "id: value". The value must be non-empty.
func (r *Reindenter) entryValue(trimmed string) (string, bool) {
	s := trimmed
	if strings.HasPrefix(s, "-") {
		s = strings.TrimLeft(s[1:], " \t")
	}
	key, rest, ok := strings.Cut(s, ":")
	if !ok || key != r.opts.EntryKey {
		return "", false
	}
	value := strings.TrimSpace(rest)
	return value, value != ""
}

// HasEntryKey reports whether content looks like an entry-start line,
// regardless of its indentation.
func (r *Reindenter) HasEntryKey(content string) bool {
	_, ok := r.entryValue(strings.TrimSpace(content))
	return ok
}

func (r *Reindenter) isField(trimmed string) bool {
	_, _, ok := r.fieldParts(trimmed)
	return ok
}

func (r *Reindenter) fieldParts(trimmed string) (key, value string, ok bool) {
	key, rest, found := strings.Cut(trimmed, ":")
	if !found {
		return "", "", false
	}
	if _, known := r.fields[key]; !known {
		return "", "", false
	}
	return key, strings.TrimSpace(rest), true
}
