package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrcopilot/resume-tracker/internal/common"
)

func TestTextRejectsDoc(t *testing.T) {
	_, err := Text("whatever.doc", "doc")
	assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
}

func TestTextRejectsUnknownType(t *testing.T) {
	for _, ft := range []string{"txt", "png", "", ".DOC"} {
		_, err := Text("whatever", ft)
		assert.ErrorIs(t, err, common.ErrUnsupportedFormat, "file type %q", ft)
	}
}

func TestTextGarbagePDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0o644))

	_, err := Text(path, "pdf")
	assert.ErrorIs(t, err, common.ErrExtractionFailed)
	assert.NotErrorIs(t, err, common.ErrUnsupportedFormat)
}

func TestTextGarbageDOCX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.docx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip archive"), 0o644))

	_, err := Text(path, "docx")
	assert.ErrorIs(t, err, common.ErrExtractionFailed)
}

func TestTextMissingPDF(t *testing.T) {
	_, err := Text(filepath.Join(t.TempDir(), "absent.pdf"), "pdf")
	assert.ErrorIs(t, err, common.ErrExtractionFailed)
}
