package source

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Load reads a file from disk, decodes BOM/UTF-16 and normalizes CRLF.
func Load(path string) (*File, error) {
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOFailure{Op: OpRead, Path: path, Err: err}
	}
	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}

	file, err := fromBytes(path, raw, 0)
	if err != nil {
		return nil, err
	}
	file.Mode = mode
	return file, nil
}

// FromBytes builds a virtual file (stdin, tests) from raw bytes.
func FromBytes(name string, raw []byte) (*File, error) {
	return fromBytes(name, raw, FileVirtual)
}

func fromBytes(path string, raw []byte, flags FileFlags) (*File, error) {
	content, decodedFlags, err := decode(raw)
	if err != nil {
		return nil, &IOFailure{Op: OpDecode, Path: path, Err: err}
	}
	return &File{
		Path:    path,
		Content: content,
		Hash:    sha256.Sum256(content),
		Flags:   flags | decodedFlags,
		Mode:    0o644,
	}, nil
}

// Encode returns content re-encoded the way f was stored on disk.
func (f *File) Encode(content []byte) ([]byte, error) {
	out, err := encode(content, f.Flags)
	if err != nil {
		return nil, &IOFailure{Op: OpWrite, Path: f.Path, Err: err}
	}
	return out, nil
}

// Write replaces the file on disk with content, restoring the original
// encoding, line endings and permissions. The replacement is atomic.
func (f *File) Write(content []byte) (err error) {
	if f.Has(FileVirtual) {
		return &IOFailure{Op: OpWrite, Path: f.Path, Err: errors.New("virtual file has no backing storage")}
	}
	data, err := f.Encode(content)
	if err != nil {
		return err
	}
	fail := func(err error) error {
		return &IOFailure{Op: OpWrite, Path: f.Path, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.Path), ".autoindent-*")
	if err != nil {
		return fail(err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fail(err)
	}
	if err = tmp.Chmod(f.Mode); err != nil {
		_ = tmp.Close()
		return fail(err)
	}
	if err = tmp.Close(); err != nil {
		return fail(err)
	}
	// Атомарная замена
	if err = os.Rename(tmp.Name(), f.Path); err != nil {
		return fail(fmt.Errorf("replace: %w", err))
	}
	return nil
}
