package reindent

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"
)

var bodyLines = []string{
	"alias: Kitchen lights",
	"description: turn things on",
	"trigger:",
	"condition:",
	"action:",
	"- platform: state",
	"- service: light.turn_on",
	"- condition: time",
	"entity_id: sensor.x",
	"to: 'on'",
	"after: '07:00:00'",
	"data:",
	"brightness: 255",
	"-",
	"target: light.kitchen",
}

// randomDocument builds a messy document that starts with an entry and
// returns it together with the entry keys in order.
func randomDocument(rng *rand.Rand) (Document, []string) {
	var doc Document
	var keys []string
	entries := 1 + rng.IntN(4)
	for e := range entries {
		key := fmt.Sprintf("auto_%d", e)
		keys = append(keys, key)
		doc = append(doc, strings.Repeat(" ", rng.IntN(4))+"- id: "+key)
		for range rng.IntN(8) {
			switch rng.IntN(10) {
			case 0:
				doc = append(doc, strings.Repeat(" ", rng.IntN(3)))
			case 1:
				doc = append(doc, strings.Repeat(" ", rng.IntN(9))+"# note")
			default:
				body := bodyLines[rng.IntN(len(bodyLines))]
				doc = append(doc, strings.Repeat(" ", rng.IntN(10))+body)
			}
		}
	}
	return doc, keys
}

func forEachRandomDocument(t *testing.T, fn func(t *testing.T, doc Document, keys []string)) {
	t.Helper()
	rng := rand.New(rand.NewPCG(42, 1337))
	for i := range 500 {
		doc, keys := randomDocument(rng)
		t.Run(fmt.Sprintf("doc%03d", i), func(t *testing.T) {
			fn(t, doc, keys)
		})
	}
}

func leadingSpaces(s string) int {
	return len(s) - len(strings.TrimLeft(s, " "))
}

func TestPropertyIdempotent(t *testing.T) {
	forEachRandomDocument(t, func(t *testing.T, doc Document, _ []string) {
		once := Reindent(doc)
		twice := Reindent(once)
		if once.String() != twice.String() {
			t.Fatalf("not idempotent:\ninput %q\nonce  %q\ntwice %q", doc.String(), once.String(), twice.String())
		}
	})
}

func TestPropertyOrderPreserved(t *testing.T) {
	forEachRandomDocument(t, func(t *testing.T, doc Document, keys []string) {
		var got []string
		for _, line := range Reindent(doc) {
			if key, ok := strings.CutPrefix(line, "- id: "); ok {
				got = append(got, key)
			}
		}
		if !slices.Equal(got, keys) {
			t.Fatalf("entry keys = %v, want %v", got, keys)
		}
	})
}

func TestPropertyTierInvariant(t *testing.T) {
	forEachRandomDocument(t, func(t *testing.T, doc Document, _ []string) {
		for i, line := range Reindent(doc) {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "#") {
				continue
			}
			switch n := leadingSpaces(line); n {
			case 0, 2, 4, 6:
			default:
				t.Fatalf("line %d %q has %d leading spaces", i+1, line, n)
			}
		}
	})
}

func TestPropertyContentPreserved(t *testing.T) {
	forEachRandomDocument(t, func(t *testing.T, doc Document, _ []string) {
		collect := func(d Document) []string {
			var out []string
			for _, line := range d {
				if s := strings.TrimSpace(line); s != "" {
					out = append(out, s)
				}
			}
			slices.Sort(out)
			return out
		}
		if in, out := collect(doc), collect(Reindent(doc)); !slices.Equal(in, out) {
			t.Fatalf("content changed:\nin  %q\nout %q", in, out)
		}
	})
}

func TestPropertyBlankAndCommentPassthrough(t *testing.T) {
	forEachRandomDocument(t, func(t *testing.T, doc Document, _ []string) {
		out := Reindent(doc)
		if len(out) != len(doc) {
			t.Fatalf("line count changed: %d -> %d", len(doc), len(out))
		}
		for i, line := range doc {
			trimmed := strings.TrimSpace(line)
			switch {
			case trimmed == "" && out[i] != "":
				t.Fatalf("blank line %d became %q", i+1, out[i])
			case strings.HasPrefix(trimmed, "#") && out[i] != line:
				t.Fatalf("comment line %d changed: %q -> %q", i+1, line, out[i])
			}
		}
	})
}

func FuzzReindentIdempotent(f *testing.F) {
	f.Add("- id: a\n    alias: foo\n    trigger:\n      - platform: state")
	f.Add("- id: a\n  alias: x\n- id: b\n  alias: y")
	f.Add("- id: a\n  trigger:\n    - platform: state\n        entity_id: sensor.x")
	f.Add("")
	f.Add("- id: a\n# note\n- id: b")
	f.Add("id: a\n\tloose\n  - x\n     y")
	f.Fuzz(func(t *testing.T, src string) {
		once := Reindent(Split(src))
		twice := Reindent(once)
		if once.String() != twice.String() {
			t.Fatalf("not idempotent for %q:\nonce  %q\ntwice %q", src, once.String(), twice.String())
		}
	})
}
