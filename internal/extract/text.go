package extract

import (
	"os"
	"strings"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"

	"github.com/hrcopilot/resume-tracker/constants"
	"github.com/hrcopilot/resume-tracker/internal/common"
)

// Text extracts raw text from the stored resume file according to its
// declared type. DOC (legacy binary Word) is explicitly unsupported; callers
// must convert to DOCX beforehand. Parse failures on a supported format are
// wrapped in common.ErrExtractionFailed with the original cause preserved,
// and are terminal for the owning job; there is no automatic retry.
func Text(path, declaredType string) (string, error) {
	switch constants.NormalizeExt(declaredType) {
	case "pdf":
		return pdfText(path)
	case "docx":
		return docxText(path)
	case "doc":
		return "", common.NewAppError("UNSUPPORTED_FORMAT",
			"legacy .doc is not supported, convert to .docx first", common.ErrUnsupportedFormat)
	default:
		return "", common.NewAppError("UNSUPPORTED_FORMAT",
			"unsupported file type: "+declaredType, common.ErrUnsupportedFormat)
	}
}

// pdfText concatenates per-page text in page order, newline separated.
func pdfText(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", common.NewAppError("EXTRACTION_FAILED", "open pdf: "+err.Error(), common.ErrExtractionFailed)
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", common.NewAppError("EXTRACTION_FAILED", "read pdf page: "+err.Error(), common.ErrExtractionFailed)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String()), nil
}

// docxText concatenates paragraph text in document order, newline separated.
func docxText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", common.NewAppError("EXTRACTION_FAILED", "open docx: "+err.Error(), common.ErrExtractionFailed)
	}
	defer f.Close()

	text, _, err := docconv.ConvertDocx(f)
	if err != nil {
		return "", common.NewAppError("EXTRACTION_FAILED", "parse docx: "+err.Error(), common.ErrExtractionFailed)
	}
	return strings.TrimSpace(text), nil
}
