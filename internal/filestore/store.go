// Package filestore persists accepted uploads under a configured root with
// generated opaque filenames. Files are write-once: created here, read by
// download and preview, never mutated afterwards.
package filestore

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/hrcopilot/resume-tracker/internal/common"
)

type Store struct {
	root string
	log  *slog.Logger
}

func New(root string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, common.WrapError(err, "create upload dir")
	}
	return &Store{root: root, log: logger}, nil
}

// Save writes the upload to a uuid-named file preserving the original
// extension, and enforces the size cap. The original filename survives only
// in job metadata, never in the stored path.
func (s *Store) Save(filename string, r io.Reader, maxSize int64) (string, int64, error) {
	stored := uuid.New().String() + filepath.Ext(filename)
	path := filepath.Join(s.root, stored)

	f, err := os.Create(path)
	if err != nil {
		return "", 0, common.WrapError(err, "create stored file")
	}
	defer f.Close()

	size, err := io.Copy(f, io.LimitReader(r, maxSize+1))
	if err != nil {
		_ = os.Remove(path)
		return "", 0, common.WrapError(err, "write stored file")
	}
	if size > maxSize {
		_ = os.Remove(path)
		return "", 0, common.NewAppError("FILE_TOO_LARGE",
			fmt.Sprintf("file exceeds size limit of %d bytes", maxSize), common.ErrInvalidInput)
	}

	s.log.Info("file stored", "filename", filename, "path", path, "size", size)
	return path, size, nil
}

// Remove deletes a stored file. Used by external collaborators (candidate
// deletion), never by the pipeline itself.
func (s *Store) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return common.WrapError(err, "remove stored file")
	}
	return nil
}
