package source

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPlainUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.yaml")
	if err := os.WriteFile(path, []byte("- id: a\n  alias: x\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Text() != "- id: a\n  alias: x\n" {
		t.Fatalf("unexpected content %q", f.Text())
	}
	if f.Flags != 0 {
		t.Fatalf("unexpected flags %b", f.Flags)
	}
	if f.Mode != 0o600 {
		t.Fatalf("mode = %v, want 0600", f.Mode)
	}
}

func TestCRLFNormalization(t *testing.T) {
	f, err := FromBytes("crlf.yaml", []byte("- id: a\r\n    alias: x\r\nlone\rcr"))
	if err != nil {
		t.Fatal(err)
	}
	if f.Text() != "- id: a\n    alias: x\nlone\rcr" {
		t.Fatalf("CRLF not normalized: %q", f.Text())
	}
	if !f.Has(FileNormalizedCRLF) || !f.Has(FileVirtual) {
		t.Fatalf("flags = %b", f.Flags)
	}

	out, err := f.Encode([]byte("- id: a\n  alias: x"))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "- id: a\r\n  alias: x" {
		t.Fatalf("CRLF not restored: %q", out)
	}
}

func TestBOMRoundTrip(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, "- id: a"...)
	f, err := FromBytes("bom.yaml", raw)
	if err != nil {
		t.Fatal(err)
	}
	if f.Text() != "- id: a" || !f.Has(FileHadBOM) {
		t.Fatalf("BOM not stripped: %q flags=%b", f.Text(), f.Flags)
	}
	out, err := f.Encode(f.Content)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, raw) {
		t.Fatalf("BOM not restored: %q", out)
	}
}

func TestUTF16RoundTrip(t *testing.T) {
	// "- id: é" in UTF-16LE with BOM
	raw := []byte{0xFF, 0xFE, '-', 0, ' ', 0, 'i', 0, 'd', 0, ':', 0, ' ', 0, 0xE9, 0}
	f, err := FromBytes("utf16.yaml", raw)
	if err != nil {
		t.Fatal(err)
	}
	if f.Text() != "- id: é" {
		t.Fatalf("UTF-16 not decoded: %q", f.Text())
	}
	if !f.Has(FileUTF16LE) {
		t.Fatalf("flags = %b", f.Flags)
	}
	out, err := f.Encode(f.Content)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, raw) {
		t.Fatalf("UTF-16 not restored: % x", out)
	}
}

func TestInvalidUTF8IsDecodeFailure(t *testing.T) {
	_, err := FromBytes("bad.yaml", []byte{'a', 0xFF, 'b'})
	if err == nil {
		t.Fatal("expected decode failure")
	}
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("error %v does not wrap ErrDecode", err)
	}
	var failure *IOFailure
	if !errors.As(err, &failure) || failure.Op != OpDecode {
		t.Fatalf("expected decode IOFailure, got %#v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	var failure *IOFailure
	if !errors.As(err, &failure) || failure.Op != OpRead {
		t.Fatalf("expected IOFailure, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("error %v does not wrap os.ErrNotExist", err)
	}
}

func TestWriteReplacesContentAndKeepsMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "auto.yaml")
	if err := os.WriteFile(path, []byte("- id: a\r\n    alias: x\r\n"), 0o640); err != nil {
		t.Fatal(err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Write([]byte("- id: a\n  alias: x\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "- id: a\r\n  alias: x\r\n" {
		t.Fatalf("written content %q", got)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Fatalf("mode = %v, want 0640", info.Mode().Perm())
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

func TestWriteVirtualFileFails(t *testing.T) {
	f, err := FromBytes("<stdin>", []byte("- id: a"))
	if err != nil {
		t.Fatal(err)
	}
	var failure *IOFailure
	if err := f.Write(f.Content); !errors.As(err, &failure) {
		t.Fatalf("expected IOFailure, got %v", err)
	}
}
