package ui

import (
	"errors"
	"strings"
	"testing"

	"autoindent/internal/driver"
)

func TestApplyEventTracksFiles(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("reindent", []string{"a.yaml", "b.yaml"}, events).(*progressModel)

	steps := []struct {
		ev         driver.Event
		file       int
		wantStatus string
		wantDone   int
	}{
		{driver.Event{File: "a.yaml", Stage: driver.StageLoad, Status: driver.StatusWorking}, 0, "loading", 0},
		{driver.Event{File: "a.yaml", Stage: driver.StageReindent, Status: driver.StatusWorking}, 0, "reindenting", 0},
		{driver.Event{File: "a.yaml", Stage: driver.StageWrite, Status: driver.StatusDone, Changed: true}, 0, "reindented", 1},
		{driver.Event{File: "b.yaml", Stage: driver.StageLoad, Status: driver.StatusError, Err: errors.New("boom")}, 1, "error", 2},
		// late events for finished files are ignored
		{driver.Event{File: "b.yaml", Stage: driver.StageLoad, Status: driver.StatusWorking}, 1, "error", 2},
		{driver.Event{File: "unknown.yaml", Status: driver.StatusDone}, 1, "error", 2},
	}
	for i, step := range steps {
		m.applyEvent(step.ev)
		if got := m.items[step.file].status; got != step.wantStatus {
			t.Fatalf("step %d: status %q, want %q", i, got, step.wantStatus)
		}
		if m.finished != step.wantDone {
			t.Fatalf("step %d: finished %d, want %d", i, m.finished, step.wantDone)
		}
	}
	if m.percent() != 1.0 {
		t.Fatalf("percent: %v", m.percent())
	}
}

func TestViewListsFiles(t *testing.T) {
	m := NewProgressModel("reindent", []string{"automations/lights.yaml"}, nil).(*progressModel)
	view := m.View()
	if !strings.Contains(view, "automations/lights.yaml") || !strings.Contains(view, "(0/1)") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.yaml", 20, "short.yaml"},
		{"automations/very/long/path.yaml", 10, "automat..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
