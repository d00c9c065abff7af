package driver

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// VerifyError reports reindented output that no longer parses as YAML.
type VerifyError struct {
	Path   string
	Line   int
	Column int
	Msg    string
	Err    error
}

func (e *VerifyError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("verify %s:%d:%d: %s", e.Path, e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("verify %s: %s", e.Path, e.Msg)
}

func (e *VerifyError) Unwrap() error {
	return e.Err
}

// Verify parses every document in content. The first parse failure is
// returned as *VerifyError.
func Verify(path, content string) error {
	dec := yaml.NewDecoder(strings.NewReader(content))
	for {
		var doc any
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return newVerifyError(path, err)
		}
	}
}

func newVerifyError(path string, err error) *VerifyError {
	msg := yaml.FormatError(err, false, false)
	ve := &VerifyError{Path: path, Msg: msg, Err: err}
	// goccy prefixes positioned errors with "[line:column]"
	var line, col int
	if n, _ := fmt.Sscanf(msg, "[%d:%d]", &line, &col); n == 2 {
		ve.Line, ve.Column = line, col
		if _, rest, ok := strings.Cut(msg, "]"); ok {
			ve.Msg = strings.TrimSpace(firstLine(rest))
		}
	} else {
		ve.Msg = firstLine(msg)
	}
	return ve
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
