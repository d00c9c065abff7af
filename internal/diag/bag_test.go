package diag

import "testing"

func TestBagLimitAndDropped(t *testing.T) {
	b := NewBag(2)
	for i := range 3 {
		b.Add(Diagnostic{Severity: SevInfo, Code: ReindentFallback, Path: "a.yaml", Line: uint32(i + 1)})
	}
	if b.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", b.Len())
	}
	if b.Dropped() != 1 {
		t.Fatalf("Dropped() = %d, want 1", b.Dropped())
	}
	if b.Add(Diagnostic{Severity: SevError, Code: IOWriteError}) {
		t.Fatalf("Add must refuse once the limit is reached")
	}
	if b.Dropped() != 2 {
		t.Fatalf("Dropped() = %d, want 2", b.Dropped())
	}
}

func TestBagSortIsDeterministic(t *testing.T) {
	b := NewBag(10)
	b.Add(Diagnostic{Severity: SevInfo, Code: ReindentFallback, Path: "b.yaml", Line: 1})
	b.Add(Diagnostic{Severity: SevInfo, Code: ReindentFallback, Path: "a.yaml", Line: 7})
	b.Add(Diagnostic{Severity: SevError, Code: IOWriteError, Path: "a.yaml", Line: 7})
	b.Add(Diagnostic{Severity: SevWarning, Code: ReindentNestedEntryKey, Path: "a.yaml", Line: 2})
	b.Sort()

	want := []Code{ReindentNestedEntryKey, IOWriteError, ReindentFallback, ReindentFallback}
	for i, d := range b.Items() {
		if d.Code != want[i] {
			t.Fatalf("item %d: got %s, want %s", i, d.Code.ID(), want[i].ID())
		}
	}
	if got := b.Items()[0].Location(); got != "a.yaml:2" {
		t.Fatalf("Location() = %q", got)
	}
}

func TestNewBagDefaultLimit(t *testing.T) {
	for _, limit := range []int{0, -1, 1 << 20} {
		b := NewBag(limit)
		for range 300 {
			b.Add(Diagnostic{Severity: SevInfo, Code: ReindentFallback})
		}
		if b.Len() != 256 || b.Dropped() != 44 {
			t.Fatalf("NewBag(%d): Len=%d Dropped=%d", limit, b.Len(), b.Dropped())
		}
	}
}

func TestCodeIDs(t *testing.T) {
	tests := map[Code]string{
		ReindentFallback: "RDT1001",
		IODecodeError:    "IO4002",
		VerifyParseError: "VFY6001",
		UnknownCode:      "E0000",
	}
	for code, want := range tests {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
	if Code(9999).Title() != "Unknown error" {
		t.Errorf("unknown codes must fall back to the generic title")
	}
}
