package constants

import "strings"

// Source formats handled by the acquirer.
const (
	PDF  = "PDF"
	TEXT = "TEXT"
)

// AllowedExtensions holds the default allowed file extensions for contract ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
	"txt": {},
}

// Output artifact extensions.
const (
	RecordExt  = ".json"
	RawTextExt = ".txt"
)

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat returns PDF, TEXT or "" for unsupported extensions.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "txt":
		return TEXT
	default:
		return ""
	}
}

// BaseName strips directory and extension: "contracts/a.b.pdf" -> "a.b".
func BaseName(path string) string {
	name := path
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	return name
}

// OutputKey is the name a document's artifacts are written under, case folded
// so two inputs cannot collide on a case-insensitive filesystem.
func OutputKey(path string) string {
	return strings.ToLower(BaseName(path))
}
