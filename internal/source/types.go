package source

type (
	// FileID identifies a source file within a FileSet.
	FileID uint32
	// FileFlags records how the file content was obtained or normalized.
	FileFlags uint8
)

const (
	// FileVirtual marks content added from memory (stdin, tests).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File holds the content of one source file plus its line index.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // byte offsets of every '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a human-readable position. Both fields are 1-based; Col counts bytes.
type LineCol struct {
	Line uint32
	Col  uint32
}
