package reindent

import "strings"

// Line is the annotated result for one input line.
type Line struct {
	// Number is the 1-based input line number.
	Number int
	Role   Role
	// Indent is the original indentation width.
	Indent int
	// Content is the input line without surrounding whitespace.
	Content string
	// Text is the emitted line.
	Text string
	// Fallback is set when no rule recognized the line and it was placed at
	// the list-item tier by default.
	Fallback bool
}

// Reindenter rewrites documents. It holds no per-document state and is safe
// for concurrent use.
type Reindenter struct {
	opts   Options
	fields map[string]struct{}
}

// New creates a Reindenter for opts; zero fields take their defaults.
func New(opts Options) *Reindenter {
	opts = opts.withDefaults()
	fields := make(map[string]struct{}, len(opts.Fields))
	for _, f := range opts.Fields {
		f = strings.TrimSpace(f)
		// the entry key always opens an entry, never a field
		if f != "" && f != opts.EntryKey {
			fields[f] = struct{}{}
		}
	}
	return &Reindenter{opts: opts, fields: fields}
}

// Options returns the effective options.
func (r *Reindenter) Options() Options {
	return r.opts
}

// Reindent returns a new Document with canonical indentation. It never fails;
// unrecognized lines fall back to the list-item tier.
func Reindent(doc Document) Document {
	return New(Options{}).Reindent(doc)
}

// Reindent returns a new Document with canonical indentation.
func (r *Reindenter) Reindent(doc Document) Document {
	lines := r.Annotate(doc)
	out := make(Document, len(lines))
	for i, ln := range lines {
		out[i] = ln.Text
	}
	return out
}

// Annotate classifies every line of doc and computes its output text.
func (r *Reindenter) Annotate(doc Document) []Line {
	if r.opts.Mode == ModeShallow {
		return r.annotateShallow(doc)
	}
	return r.annotateFull(doc)
}

func (r *Reindenter) annotateFull(doc Document) []Line {
	out := make([]Line, 0, len(doc))
	inEntry := false
	var st entryState

	for i, raw := range doc {
		li := r.scan(raw)
		role, fallback := r.classify(li, inEntry, st)
		if role == RoleEntryStart {
			inEntry = true
		}
		if !fallback {
			st.observe(role, li.indent)
		}

		out = append(out, Line{
			Number:   i + 1,
			Role:     role,
			Indent:   li.indent,
			Content:  li.trimmed,
			Text:     r.render(li, role, inEntry),
			Fallback: fallback,
		})
	}
	return out
}

// render produces the output text for a classified line.
func (r *Reindenter) render(li lineInfo, role Role, inEntry bool) string {
	switch role {
	case RoleEntryStart:
		value, _ := r.entryValue(li.trimmed)
		return "- " + r.opts.EntryKey + ": " + value
	case RoleField:
		key, value, _ := r.fieldParts(li.trimmed)
		if value == "" {
			return TierField.pad() + key + ":"
		}
		return TierField.pad() + key + ": " + value
	case RoleListItem:
		return TierListItem.pad() + li.trimmed
	case RoleNested:
		return TierNested.pad() + li.trimmed
	case RoleBlank:
		if inEntry {
			return ""
		}
		return li.raw
	default:
		return li.raw
	}
}

// annotateShallow is the legacy de-indent pass: after a
// "- id:" line at column 0, every following line indented by four or more
// spaces loses its first two characters. The block ends at the first line
// that is not indented that far, blank lines included.
func (r *Reindenter) annotateShallow(doc Document) []Line {
	out := make([]Line, 0, len(doc))
	marker := "- " + r.opts.EntryKey + ":"
	deep := TierListItem.pad()

	for i := 0; i < len(doc); {
		raw := doc[i]
		li := r.scan(raw)
		if !strings.HasPrefix(raw, marker) {
			role, _ := r.classify(li, false, entryState{})
			if role == RoleEntryStart {
				role = RoleOutside
			}
			out = append(out, Line{Number: i + 1, Role: role, Indent: li.indent, Content: li.trimmed, Text: raw})
			i++
			continue
		}

		out = append(out, Line{Number: i + 1, Role: RoleEntryStart, Content: li.trimmed, Text: raw})
		i++
		for i < len(doc) && strings.HasPrefix(doc[i], deep) {
			li = r.scan(doc[i])
			out = append(out, Line{
				Number:  i + 1,
				Role:    r.shallowRole(li.trimmed),
				Indent:  li.indent,
				Content: li.trimmed,
				Text:    doc[i][2:],
			})
			i++
		}
	}
	return out
}

func (r *Reindenter) shallowRole(trimmed string) Role {
	switch {
	case trimmed == "":
		return RoleBlank
	case isComment(trimmed):
		return RoleComment
	case r.isField(trimmed):
		return RoleField
	case isListMarker(trimmed):
		return RoleListItem
	default:
		return RoleNested
	}
}

// Stats counts annotated lines per role.
type Stats struct {
	Lines     int
	Entries   int
	Fallbacks int
	Roles     [roleCount]int
}

// Count returns how many lines had role.
func (s Stats) Count(role Role) int {
	if int(role) >= len(s.Roles) {
		return 0
	}
	return s.Roles[role]
}

// Summarize aggregates annotated lines.
func Summarize(lines []Line) Stats {
	var s Stats
	for _, ln := range lines {
		s.Lines++
		if int(ln.Role) < len(s.Roles) {
			s.Roles[ln.Role]++
		}
		if ln.Role == RoleEntryStart {
			s.Entries++
		}
		if ln.Fallback {
			s.Fallbacks++
		}
	}
	return s
}
