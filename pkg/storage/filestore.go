package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sfsf02/AcceessHealth/pkg/common/logger"
)

// FileStore keeps uploaded attachments and profile images on local disk and
// hands back the relative path recorded against the owning row.
type FileStore struct {
	baseDir string
}

func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		baseDir = "uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Save writes the content under <base>/<category>/<owner>/ with a
// timestamped randomized name and returns the stored relative path.
func (s *FileStore) Save(category, owner, filename string, content io.Reader) (string, error) {
	dir := filepath.Join(s.baseDir, sanitize(category), sanitize(owner))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%d_%s%s", time.Now().Unix(), randomSuffix(8), filepath.Ext(filename))
	full := filepath.Join(dir, name)

	out, err := os.Create(full)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, content); err != nil {
		os.Remove(full)
		return "", err
	}

	rel, err := filepath.Rel(s.baseDir, full)
	if err != nil {
		rel = full
	}
	logger.Log.WithField("path", rel).Debug("stored upload")
	return filepath.ToSlash(rel), nil
}

func (s *FileStore) Remove(relPath string) error {
	if relPath == "" {
		return nil
	}
	return os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(relPath)))
}

func sanitize(part string) string {
	part = strings.TrimSpace(part)
	part = strings.ReplaceAll(part, "..", "")
	part = strings.ReplaceAll(part, "/", "_")
	part = strings.ReplaceAll(part, "\\", "_")
	if part == "" {
		part = "misc"
	}
	return part
}

func randomSuffix(length int) string {
	bytes := make([]byte, length/2)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
