package diagfmt

import "autoindent/internal/diag"

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	File     string `json:"file"`
	Line     uint32 `json:"line,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Dropped     int              `json:"dropped,omitempty"`
}

// BuildDiagnostics converts bag items into their JSON form.
func BuildDiagnostics(bag *diag.Bag, opts JSONOpts) DiagnosticsOutput {
	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0)}
	if bag == nil {
		return out
	}
	out.Dropped = bag.Dropped()
	for _, d := range bag.Items() {
		out.Diagnostics = append(out.Diagnostics, DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Title:    d.Code.Title(),
			Message:  d.Message,
			File:     formatPath(d.Path, opts.PathMode, opts.BaseDir),
			Line:     d.Line,
		})
	}
	out.Count = len(out.Diagnostics)
	return out
}
