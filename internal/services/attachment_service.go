// File: internal/services/attachment_service.go
package services

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// RefPrefix is the URL prefix under which stored attachments are served.
const RefPrefix = "/uploads/"

var ErrAttachmentTooLarge = errors.New("attachment exceeds size limit")

// AttachmentStore accepts binary blobs at message-creation time and
// returns opaque reference strings. Deletion is best-effort.
type AttachmentStore interface {
	Save(filename string, r io.Reader) (string, error)
	Delete(ref string) error
}

// DiskAttachmentStore keeps attachments as files under a single
// directory, named by a random ID plus the original extension.
type DiskAttachmentStore struct {
	baseDir  string
	maxBytes int64
	logger   Logger
}

func NewDiskAttachmentStore(baseDir string, maxMB int, logger Logger) (*DiskAttachmentStore, error) {
	if baseDir == "" {
		return nil, NewValidationError("constructor", "attachment directory is required")
	}
	if maxMB <= 0 {
		maxMB = 10
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create attachment directory: %w", err)
	}
	return &DiskAttachmentStore{
		baseDir:  baseDir,
		maxBytes: int64(maxMB) * 1024 * 1024,
		logger:   logger,
	}, nil
}

// Save writes the blob and returns its opaque reference. The original
// filename contributes only its extension.
func (s *DiskAttachmentStore) Save(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	name := uuid.NewString() + ext
	path := filepath.Join(s.baseDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("could not create attachment file: %w", err)
	}
	defer f.Close()

	// Read one byte past the cap to detect oversized blobs.
	n, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("could not write attachment: %w", err)
	}
	if n > s.maxBytes {
		_ = os.Remove(path)
		return "", ErrAttachmentTooLarge
	}

	s.logger.Debug("attachment stored", "ref", RefPrefix+name, "bytes", n)
	return RefPrefix + name, nil
}

// Delete removes the blob behind ref. Failures are swallowed after
// logging; attachment cleanup is never fatal to the calling operation.
func (s *DiskAttachmentStore) Delete(ref string) error {
	if ref == "" {
		return nil
	}
	// Basename only, so a crafted ref cannot escape the directory.
	path := filepath.Join(s.baseDir, filepath.Base(ref))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("could not delete attachment", "ref", ref, "error", err)
		return err
	}
	return nil
}

// Dir exposes the backing directory for static file serving.
func (s *DiskAttachmentStore) Dir() string {
	return s.baseDir
}
