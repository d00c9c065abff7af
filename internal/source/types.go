package source

import "io/fs"

type (
	// FileFlags encodes metadata about a source file.
	FileFlags uint8 // метаданные
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска (тест, stdin)
	FileHadBOM
	FileNormalizedCRLF
	FileUTF16LE
	FileUTF16BE
)

// File captures the decoded content of a single automation file.
type File struct {
	Path    string
	Content []byte // UTF-8, LF line endings, no BOM
	Hash    [32]byte
	Flags   FileFlags
	Mode    fs.FileMode
}

// Has reports whether flag is set.
func (f *File) Has(flag FileFlags) bool {
	return f.Flags&flag != 0
}

// Text returns the decoded content as a string.
func (f *File) Text() string {
	return string(f.Content)
}
