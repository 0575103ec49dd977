package constants

import "strings"

// FileTypes holds the declared file types accepted for the file_type field
// in extraction_jobs. DOC is accepted at upload but rejected by the text
// extractor; callers must convert legacy binaries to DOCX first.
var FileTypes = []string{"pdf", "docx", "doc"}

// AllowedExtensions holds the allowed file extensions for resume uploads.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"doc":  {},
	"docx": {},
}

// MaxFileSizeDefault caps accepted uploads at 10 MiB.
const MaxFileSizeDefault = 10 * 1024 * 1024

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
