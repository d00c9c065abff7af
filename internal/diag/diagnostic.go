package diag

import "fmt"

// Severity ranks a diagnostic. Higher values are more serious, so filters
// compare with >=.
type Severity uint8

const (
	// SevInfo marks placements worth knowing about, such as fallback lines.
	SevInfo Severity = iota
	// SevWarning marks lines whose placement probably changed their meaning.
	SevWarning
	// SevError marks files that were not processed.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Path     string
	Line     uint32
}

// Location renders "path:line", or just the path when Line is zero.
func (d Diagnostic) Location() string {
	if d.Line == 0 {
		return d.Path
	}
	return fmt.Sprintf("%s:%d", d.Path, d.Line)
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s %s: %s", d.Location(), d.Severity, d.Code.ID(), d.Message)
}
