package source

import (
	"bytes"
	"fmt"
	"slices"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decode turns raw file bytes into UTF-8 with LF line endings.
func decode(raw []byte) ([]byte, FileFlags, error) {
	var flags FileFlags
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		flags |= FileHadBOM
	case bytes.HasPrefix(raw, bomUTF16LE):
		flags |= FileHadBOM | FileUTF16LE
	case bytes.HasPrefix(raw, bomUTF16BE):
		flags |= FileHadBOM | FileUTF16BE
	}
	// UTF-8 декодер x/text молча заменяет битые байты на U+FFFD
	if flags&(FileUTF16LE|FileUTF16BE) == 0 && !utf8.Valid(raw) {
		return nil, 0, ErrDecode
	}

	out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if !utf8.Valid(out) {
		return nil, 0, ErrDecode
	}

	out, hadCRLF := normalizeCRLF(out)
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return out, flags, nil
}

// encode reverses decode for content produced from a file with flags.
func encode(content []byte, flags FileFlags) ([]byte, error) {
	if flags&FileNormalizedCRLF != 0 {
		content = bytes.ReplaceAll(content, []byte("\n"), []byte("\r\n"))
	}
	switch {
	case flags&FileUTF16LE != 0:
		out, _, err := transform.Bytes(unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder(), content)
		return out, err
	case flags&FileUTF16BE != 0:
		out, _, err := transform.Bytes(unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder(), content)
		return out, err
	case flags&FileHadBOM != 0:
		return append(slices.Clone(bomUTF8), content...), nil
	}
	return content, nil
}

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
// Возвращает новый слайс и флаг: были ли замены (true, если хотя бы одна).
func normalizeCRLF(content []byte) ([]byte, bool) {
	// Быстрый путь: если нет \r, возвращаем как есть.
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}
