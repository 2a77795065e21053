package source

type (
	// FileID uniquely identifies a loaded file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a loaded file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for one input file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// Loc identifies the line range a deck entity originated from.
// It is carried for diagnostics and display only and never participates
// in card equality or diff outcome.
type Loc struct {
	File      FileID
	StartLine uint32 // 1-based, inclusive
	EndLine   uint32 // 1-based, inclusive
}

// Before orders locations by (file, start line, end line). Used as the
// deterministic tie-break when matching cards that have no identifier.
func (l Loc) Before(other Loc) bool {
	if l.File != other.File {
		return l.File < other.File
	}
	if l.StartLine != other.StartLine {
		return l.StartLine < other.StartLine
	}
	return l.EndLine < other.EndLine
}

// Cover extends l to span other as well. Locations in different files
// are left untouched.
func (l Loc) Cover(other Loc) Loc {
	if l.File != other.File {
		return l
	}
	if other.StartLine < l.StartLine {
		l.StartLine = other.StartLine
	}
	if other.EndLine > l.EndLine {
		l.EndLine = other.EndLine
	}
	return l
}
