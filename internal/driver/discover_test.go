package driver

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDiscoverDirectory(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.yaml":          "",
		"b.yml":           "",
		"sub/c.yaml":      "",
		"sub/skip.yaml":   "",
		".hidden/d.yaml":  "",
		"notes.txt":       "",
		"archive/e.yaml":  "",
		"archive/f.YAML":  "",
		"sub/deep/g.yaml": "",
	})

	tests := []struct {
		name string
		opts DiscoverOptions
		want []string
	}{
		{
			name: "all",
			opts: DiscoverOptions{Dir: root, Extension: ".yaml"},
			want: []string{"a.yaml", "archive/e.yaml", "archive/f.YAML", "sub/c.yaml", "sub/deep/g.yaml", "sub/skip.yaml"},
		},
		{
			name: "include",
			opts: DiscoverOptions{Dir: root, Extension: ".yaml", Include: []string{"sub/**"}},
			want: []string{"sub/c.yaml", "sub/deep/g.yaml", "sub/skip.yaml"},
		},
		{
			name: "exclude",
			opts: DiscoverOptions{Dir: root, Extension: ".yaml", Exclude: []string{"archive/**", "**/skip.yaml"}},
			want: []string{"a.yaml", "sub/c.yaml", "sub/deep/g.yaml"},
		},
		{
			name: "other extension",
			opts: DiscoverOptions{Dir: root, Extension: ".yml"},
			want: []string{"b.yml"},
		},
		{
			name: "top level",
			opts: DiscoverOptions{Dir: root, Extension: ".yaml", TopLevel: true},
			want: []string{"a.yaml"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Discover(context.Background(), tt.opts)
			if err != nil {
				t.Fatalf("Discover: %v", err)
			}
			var rel []string
			for _, f := range got.Files {
				r, err := filepath.Rel(root, f)
				if err != nil {
					t.Fatal(err)
				}
				rel = append(rel, filepath.ToSlash(r))
			}
			if !slices.Equal(rel, tt.want) {
				t.Fatalf("got %q, want %q", rel, tt.want)
			}
		})
	}
}

func TestDiscoverMissingDirIsEmpty(t *testing.T) {
	got, err := Discover(context.Background(), DiscoverOptions{Dir: filepath.Join(t.TempDir(), "automations")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Files) != 0 || len(got.Missing) != 0 {
		t.Fatalf("expected empty discovery, got %+v", got)
	}
}

func TestDiscoverListReportsMissing(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"lights.yaml": "", "heat.yaml": ""})
	list := []string{
		filepath.Join(root, "lights.yaml"),
		filepath.Join(root, "gone.yaml"),
		filepath.Join(root, "heat.yaml"),
		filepath.Join(root, "lights.yaml"),
	}

	got, err := Discover(context.Background(), DiscoverOptions{List: list, Dir: root})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := []string{filepath.Join(root, "heat.yaml"), filepath.Join(root, "lights.yaml")}
	if !slices.Equal(got.Files, want) {
		t.Fatalf("files: got %q, want %q", got.Files, want)
	}
	if !slices.Equal(got.Missing, []string{filepath.Join(root, "gone.yaml")}) {
		t.Fatalf("missing: got %q", got.Missing)
	}
}

func TestDiscoverExplicitPaths(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"x/a.yaml": "", "x/b.txt": "", "y.txt": ""})

	got, err := Discover(context.Background(), DiscoverOptions{
		Paths:     []string{filepath.Join(root, "x"), filepath.Join(root, "y.txt")},
		List:      []string{filepath.Join(root, "ignored.yaml")},
		Extension: ".yaml",
	})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := []string{filepath.Join(root, "x", "a.yaml"), filepath.Join(root, "y.txt")}
	if !slices.Equal(got.Files, want) {
		t.Fatalf("got %q, want %q", got.Files, want)
	}

	if _, err := Discover(context.Background(), DiscoverOptions{Paths: []string{filepath.Join(root, "nope")}}); err == nil {
		t.Fatal("expected error for missing explicit path")
	}
}

func TestDiscoverRejectsBadGlob(t *testing.T) {
	_, err := Discover(context.Background(), DiscoverOptions{Dir: t.TempDir(), Include: []string{"[abc"}})
	if err == nil {
		t.Fatal("expected invalid pattern error")
	}
}
